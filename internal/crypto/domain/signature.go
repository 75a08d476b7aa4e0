package domain

import (
	"encoding/base64"
	"strings"
)

// Signature holds raw RSA signature bytes.
//
// The only wire encoding is standard base64 with padding. base64url and unpadded
// forms are parse errors; a hex string decodes to the wrong length for the key
// and fails verification.
type Signature []byte

// String returns the canonical wire encoding of the signature.
func (s Signature) String() string {
	return base64.StdEncoding.EncodeToString(s)
}

// MarshalText implements encoding.TextMarshaler using the canonical encoding.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects non-canonical input.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignature decodes the canonical wire encoding of a signature.
func ParseSignature(value string) (Signature, error) {
	if value == "" || strings.TrimSpace(value) != value {
		return nil, ErrInvalidSignatureFormat
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(value)
	if err != nil || len(raw) == 0 {
		return nil, ErrInvalidSignatureFormat
	}
	return Signature(raw), nil
}
