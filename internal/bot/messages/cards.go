package messages

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Callback prefixes understood by the moderator router.
const (
	VendorPrefix    = "vendor_"
	CollectorPrefix = "collector_"
	FraudPrefix     = "fraud_"
)

// CallbackData encodes prefix, action and target as "<prefix><action>_<uuid>".
func CallbackData(prefix, action string, id uuid.UUID) string {
	return prefix + action + "_" + id.String()
}

// ParseCallbackData splits data built by CallbackData. Actions may contain
// underscores; the id is always after the last one.
func ParseCallbackData(prefix, data string) (action string, id uuid.UUID, err error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: callback %q lacks prefix %q", domain.ErrInvalidInput, data, prefix)
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return "", uuid.Nil, fmt.Errorf("%w: malformed callback %q", domain.ErrInvalidInput, data)
	}
	id, err = uuid.Parse(rest[i+1:])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: bad id in callback %q", domain.ErrInvalidInput, data)
	}
	return rest[:i], id, nil
}

// VendorCard renders a vendor awaiting review.
func VendorCard(user *domain.User, v *domain.Vendor) (string, [][]ports.Button) {
	var sb strings.Builder
	sb.WriteString("🏭 *Vendor for review*\n")
	fmt.Fprintf(&sb, "ID: `%s`\n\n", v.ID)
	fmt.Fprintf(&sb, "*Company:* %s\n", Escape(v.CompanyName))
	fmt.Fprintf(&sb, "*License:* `%s`\n", Escape(v.LicenseNumber))
	fmt.Fprintf(&sb, "*Capacity:* %d\n", v.ProcessingCapacity)
	if user != nil {
		fmt.Fprintf(&sb, "*Contact:* %s, %s\n", Escape(user.FullName()), Escape(user.Email))
	}
	fmt.Fprintf(&sb, "*Status:* %s\n", Escape(string(v.VerificationStatus)))

	buttons := [][]ports.Button{
		{
			{Text: "✅ Approve", Data: CallbackData(VendorPrefix, string(domain.ActionApprove), v.ID)},
			{Text: "❌ Reject", Data: CallbackData(VendorPrefix, string(domain.ActionReject), v.ID)},
		},
	}
	if v.VerificationStatus == domain.StatusPending {
		buttons = append(buttons, []ports.Button{
			{Text: "🔎 Under review", Data: CallbackData(VendorPrefix, string(domain.ActionReview), v.ID)},
		})
	}
	return sb.String(), buttons
}

// CollectorCard renders a collector awaiting review, listing missing documents.
func CollectorCard(user *domain.User, c *domain.Collector) (string, [][]ports.Button) {
	var sb strings.Builder
	sb.WriteString("🚚 *Collector for review*\n")
	fmt.Fprintf(&sb, "ID: `%s`\n\n", c.ID)
	if user != nil {
		fmt.Fprintf(&sb, "*Name:* %s\n", Escape(user.FullName()))
		fmt.Fprintf(&sb, "*Phone:* `%s`\n", Escape(user.Phone))
	}
	fmt.Fprintf(&sb, "*Vehicle:* %s %s\n", Escape(string(c.VehicleType)), Escape(c.VehicleNumber))
	if c.ServiceArea != "" {
		fmt.Fprintf(&sb, "*Area:* %s\n", Escape(c.ServiceArea))
	}
	fmt.Fprintf(&sb, "*Status:* %s\n", Escape(string(c.VerificationStatus)))
	if missing := c.MissingDocuments(); len(missing) > 0 {
		fmt.Fprintf(&sb, "⚠️ *Missing:* %s\n", Escape(strings.Join(missing, ", ")))
	}

	buttons := [][]ports.Button{
		{
			{Text: "✅ Approve", Data: CallbackData(CollectorPrefix, string(domain.ActionApprove), c.ID)},
			{Text: "❌ Reject", Data: CallbackData(CollectorPrefix, string(domain.ActionReject), c.ID)},
		},
		{
			{Text: "📄 Request documents", Data: CallbackData(CollectorPrefix, string(domain.ActionRequestDocuments), c.ID)},
		},
	}
	return sb.String(), buttons
}

// FraudCard renders an open fraud flag.
func FraudCard(e ports.FlaggedEvent) (string, [][]ports.Button) {
	f := e.Flag
	var sb strings.Builder
	sb.WriteString("🚨 *Fraud flag raised*\n")
	fmt.Fprintf(&sb, "Flag: `%s`\n\n", f.ID)
	if e.ProductName != "" {
		fmt.Fprintf(&sb, "*Product:* %s\n", Escape(e.ProductName))
	}
	if e.VendorName != "" {
		fmt.Fprintf(&sb, "*Vendor:* %s\n", Escape(e.VendorName))
	}
	fmt.Fprintf(&sb, "*Estimated:* %s\n", Escape(f.VarianceDetails.EstimatedValue.StringFixed(2)))
	fmt.Fprintf(&sb, "*Final:* %s\n", Escape(f.VarianceDetails.FinalValue.StringFixed(2)))
	fmt.Fprintf(&sb, "*Variance:* %s%%\n", Escape(f.VarianceDetails.VariancePercentage.StringFixed(2)))
	fmt.Fprintf(&sb, "*Risk score:* %s\n", Escape(f.RiskScore.StringFixed(2)))
	if e.AutoSuspended {
		sb.WriteString("⛔ Vendor was suspended automatically\n")
	}

	buttons := [][]ports.Button{
		{
			{Text: "👍 Vendor correct", Data: CallbackData(FraudPrefix, string(domain.DecisionVendorCorrect), f.ID)},
			{Text: "👎 Vendor fraud", Data: CallbackData(FraudPrefix, string(domain.DecisionVendorFraud), f.ID)},
		},
	}
	return sb.String(), buttons
}
