package messages

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackData_Roundtrip(t *testing.T) {
	id := uuid.New()

	action, got, err := ParseCallbackData(VendorPrefix, CallbackData(VendorPrefix, "approve", id))
	require.NoError(t, err)
	assert.Equal(t, "approve", action)
	assert.Equal(t, id, got)

	action, got, err = ParseCallbackData(CollectorPrefix, CallbackData(CollectorPrefix, "request_documents", id))
	require.NoError(t, err)
	assert.Equal(t, "request_documents", action)
	assert.Equal(t, id, got)
}

func TestParseCallbackData_Rejects(t *testing.T) {
	cases := map[string]string{
		"wrong prefix": "fraud_vendor_fraud_" + uuid.NewString(),
		"no action":    "vendor_" + uuid.NewString(),
		"bad uuid":     "vendor_approve_nope",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseCallbackData(VendorPrefix, data)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `Green\-Tech \(Pvt\.\) Ltd\!`, Escape("Green-Tech (Pvt.) Ltd!"))
}

func TestCollectorCard_ListsMissingDocuments(t *testing.T) {
	c := domain.NewCollector(uuid.New(), domain.VehicleBike)
	c.ProfilePhoto = "photo.jpg"

	text, buttons := CollectorCard(&domain.User{FirstName: "Ravi", LastName: "K", Phone: "9876543210"}, c)
	assert.Contains(t, text, `driving\_license\_front`)
	require.Len(t, buttons, 2)
	assert.Equal(t, CallbackData(CollectorPrefix, "request_documents", c.ID), buttons[1][0].Data)
}

func TestVendorCard_ReviewButtonOnlyWhilePending(t *testing.T) {
	v, err := domain.NewVendor(uuid.New(), "Green Metals", "LIC-1", "lic.pdf", 50)
	require.NoError(t, err)

	_, buttons := VendorCard(nil, v)
	assert.Len(t, buttons, 2)

	v.VerificationStatus = domain.StatusUnderReview
	_, buttons = VendorCard(nil, v)
	assert.Len(t, buttons, 1)
}

func TestFraudCard(t *testing.T) {
	flag := domain.NewFraudFlag(uuid.New(), uuid.New(), decimal.NewFromInt(100), domain.VarianceDetails{
		EstimatedValue:     decimal.NewFromInt(1000),
		FinalValue:         decimal.NewFromInt(400),
		VariancePercentage: decimal.NewFromInt(60),
		Threshold:          decimal.NewFromInt(30),
	})

	text, buttons := FraudCard(ports.FlaggedEvent{Flag: flag, ProductName: "Old TV", VendorName: "Acme", AutoSuspended: true})
	assert.Contains(t, text, `60\.00%`)
	assert.Contains(t, text, "suspended automatically")
	assert.Equal(t, CallbackData(FraudPrefix, "vendor_fraud", flag.ID), buttons[0][1].Data)
}
