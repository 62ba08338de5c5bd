package security

import (
	"ERecyclo/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Sealed layout: version byte | nonce | GCM ciphertext.
const sealVersion byte = 1

var (
	errUnknownSealVersion = errors.New("sealed field has an unknown version")
	fieldAAD              = []byte("erecyclo/profile-field")
)

// fieldCipher seals GST and driving licence numbers before they reach the
// profile tables.
type fieldCipher struct {
	gcm cipher.AEAD
	log zerolog.Logger
}

var _ ports.SecurityPort = (*fieldCipher)(nil)

// NewAESService accepts a 16 or 32 byte key.
func NewAESService(key []byte, baseLogger *zerolog.Logger) (ports.SecurityPort, error) {
	switch len(key) {
	case 16, 32:
	default:
		return nil, fmt.Errorf("field cipher key is %d bytes, want 16 or 32", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}

	log := baseLogger.With().Str("component", "field_cipher").Logger()
	log.Info().Int("key_bits", len(key)*8).Uint8("version", sealVersion).Msg("Field cipher ready")
	return &fieldCipher{gcm: gcm, log: log}, nil
}

// NewAESServiceFromHex builds the cipher from the ENCRYPTION_KEY setting.
func NewAESServiceFromHex(hexKey string, baseLogger *zerolog.Logger) (ports.SecurityPort, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	return NewAESService(key, baseLogger)
}

func (c *fieldCipher) Encrypt(plaintext []byte) ([]byte, error) {
	header := make([]byte, 1+c.gcm.NonceSize())
	header[0] = sealVersion
	if _, err := rand.Read(header[1:]); err != nil {
		c.log.Error().Err(err).Msg("Nonce generation failed")
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return c.gcm.Seal(header, header[1:], plaintext, fieldAAD), nil
}

func (c *fieldCipher) Decrypt(sealed []byte) ([]byte, error) {
	headerLen := 1 + c.gcm.NonceSize()
	if len(sealed) < headerLen+c.gcm.Overhead() {
		return nil, errors.New("sealed field is truncated")
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("%w: %d", errUnknownSealVersion, sealed[0])
	}

	plaintext, err := c.gcm.Open(nil, sealed[1:headerLen], sealed[headerLen:], fieldAAD)
	if err != nil {
		c.log.Warn().Err(err).Msg("Sealed field failed authentication")
		return nil, fmt.Errorf("open sealed field: %w", err)
	}
	return plaintext, nil
}
