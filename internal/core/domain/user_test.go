package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Can(t *testing.T) {
	assert.True(t, RoleCustomer.Can(CapUploadProduct))
	assert.False(t, RoleCustomer.Can(CapResolveFraud))
	assert.True(t, RoleVendor.Can(CapVendorWork))
	assert.False(t, RoleVendor.Can(CapCollectorWork))
	assert.True(t, RoleCollector.Can(CapCollectorWork))
	assert.True(t, RoleAdmin.Can(CapVerifyCollectors))
	assert.False(t, RoleAdmin.Can(CapUploadProduct))
	assert.False(t, Role("ghost").Can(CapViewProduct))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Vendor")
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, r)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUser_Validate(t *testing.T) {
	u := &User{
		Email:     "asha@example.com",
		Phone:     "9876543210",
		FirstName: "Asha",
		LastName:  "Rao",
		Pincode:   "560001",
	}
	require.NoError(t, u.Validate())
	assert.Equal(t, "Asha Rao", u.FullName())

	u.Phone = "1234567890"
	assert.ErrorIs(t, u.Validate(), ErrInvalidInput)

	u.Phone = "9876543210"
	u.Pincode = "5600"
	assert.ErrorIs(t, u.Validate(), ErrInvalidInput)
}

func TestNormalizers(t *testing.T) {
	v, err := NormalizeVehicleNumber("mh-01-ab-1234")
	require.NoError(t, err)
	assert.Equal(t, "MH-01-AB-1234", v)
	_, err = NormalizeVehicleNumber("12AB")
	assert.ErrorIs(t, err, ErrInvalidInput)

	dl, err := NormalizeDrivingLicense("mh0120230001234")
	require.NoError(t, err)
	assert.Equal(t, "MH0120230001234", dl)
	_, err = NormalizeDrivingLicense("MH01")
	assert.ErrorIs(t, err, ErrInvalidInput)

	gst, err := NormalizeGSTIN("27aapfu0939f1zv")
	require.NoError(t, err)
	assert.Equal(t, "27AAPFU0939F1ZV", gst)
	_, err = NormalizeGSTIN("27AAPFU0939F1Z")
	assert.ErrorIs(t, err, ErrInvalidInput)

	empty, err := NormalizeGSTIN("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUser_ProfileCompletion(t *testing.T) {
	u := &User{}
	assert.Equal(t, 0, u.ProfileCompletion())

	u.FirstName, u.LastName, u.Phone = "Asha", "Rao", "9876543210"
	assert.Equal(t, 50, u.ProfileCompletion())

	u.Address, u.City, u.Pincode = "12 MG Road", "Pune", "411001"
	assert.Equal(t, 100, u.ProfileCompletion())
}
