package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	vehicleNumberRegex  = regexp.MustCompile(`^[A-Z]{2}\s*-?\s*[0-9]{1,2}\s*-?\s*[A-Z]{0,2}\s*-?\s*[0-9]{1,4}$`)
	drivingLicenseRegex = regexp.MustCompile(`^[A-Z]{2}\d{13,15}$`)
	gstinRegex          = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// NormalizeVehicleNumber accepts MH01AB1234, MH 01 AB 1234 or MH-01-AB-1234.
// Empty input stays empty.
func NormalizeVehicleNumber(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if !vehicleNumberRegex.MatchString(s) {
		return "", fmt.Errorf("%w: enter a valid vehicle number (e.g. MH01AB1234)", ErrInvalidInput)
	}
	return s, nil
}

// NormalizeDrivingLicense expects two letters followed by 13-15 digits.
func NormalizeDrivingLicense(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if !drivingLicenseRegex.MatchString(s) {
		return "", fmt.Errorf("%w: enter a valid driving license number (e.g. MH0120230001234)", ErrInvalidInput)
	}
	return s, nil
}

// NormalizeGSTIN validates a 15-character GST identification number.
func NormalizeGSTIN(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if len(s) != 15 || !gstinRegex.MatchString(s) {
		return "", fmt.Errorf("%w: enter a valid GSTIN (e.g. 27AAPFU0939F1ZV)", ErrInvalidInput)
	}
	return s, nil
}
