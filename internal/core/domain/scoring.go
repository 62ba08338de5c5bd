package domain

import "github.com/shopspring/decimal"

var (
	hundred         = decimal.NewFromInt(100)
	trustBase       = decimal.NewFromInt(50)
	forensicsWeight = decimal.RequireFromString("0.3")
	ratingWeight    = decimal.NewFromInt(20)
)

// ComputeTrustScore is min(100, 50 + forensics*0.3 + (rating/5)*20),
// floored at 0 and rounded to two places.
func ComputeTrustScore(forensics, rating decimal.Decimal) decimal.Decimal {
	score := trustBase.
		Add(forensics.Mul(forensicsWeight)).
		Add(rating.Div(maxRating).Mul(ratingWeight))
	return clamp(score, decimal.Zero, hundred).Round(2)
}

// ComputeRiskScore compares a vendor's final valuation to the upload
// estimate. Risk scales linearly so that a variance equal to
// varianceThreshold percent yields riskThreshold, capped to [0, 100].
func ComputeRiskScore(estimated, final, varianceThreshold, riskThreshold decimal.Decimal) (decimal.Decimal, VarianceDetails) {
	details := VarianceDetails{
		EstimatedValue:     estimated,
		FinalValue:         final,
		VariancePercentage: decimal.Zero,
		Threshold:          varianceThreshold,
	}
	if !estimated.IsPositive() || !varianceThreshold.IsPositive() {
		return decimal.Zero, details
	}

	variance := final.Sub(estimated).Abs().Div(estimated).Mul(hundred).Round(2)
	details.VariancePercentage = variance

	risk := variance.Div(varianceThreshold).Mul(riskThreshold)
	return clamp(risk, decimal.Zero, hundred).Round(2), details
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
