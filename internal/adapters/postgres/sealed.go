package postgres

import (
	"ERecyclo/internal/core/ports"
	"encoding/base64"
	"fmt"
)

// sealString encrypts plaintext and returns it base64 encoded for a TEXT column.
func sealString(sec ports.SecurityPort, plaintext string) (string, error) {
	encBytes, err := sec.Encrypt([]byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encBytes), nil
}

// openString reverses sealString.
func openString(sec ports.SecurityPort, stored string) (string, error) {
	decBytes, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	dec, err := sec.Decrypt(decBytes)
	if err != nil {
		return "", fmt.Errorf("decrypt (tampered?): %w", err)
	}
	return string(dec), nil
}
