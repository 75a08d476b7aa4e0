package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCertificatePEM(t *testing.T) {
	t.Run("Error_Empty", func(t *testing.T) {
		_, err := ParseCertificatePEM("")
		assert.ErrorIs(t, err, ErrInvalidCertificate)
	})

	t.Run("Error_WrongBlockType", func(t *testing.T) {
		_, err := ParseCertificatePEM("-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n")
		assert.ErrorIs(t, err, ErrInvalidCertificate)
	})

	t.Run("Error_InvalidDER", func(t *testing.T) {
		_, err := ParseCertificatePEM("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n")
		assert.ErrorIs(t, err, ErrInvalidCertificate)
	})

	t.Run("Error_NotPEM", func(t *testing.T) {
		_, err := ParseCertificatePEM("MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA")
		assert.ErrorIs(t, err, ErrInvalidCertificate)
	})
}

func TestCertificate_HandBuilt(t *testing.T) {
	cert := &Certificate{Serial: "00", NotBefore: time.Now().Add(-time.Hour), NotAfter: time.Now().Add(time.Hour)}

	assert.Nil(t, cert.X509())
	assert.Nil(t, cert.PublicKey())
	assert.False(t, cert.IsCA())
	assert.Empty(t, cert.Fingerprint())
	assert.True(t, cert.ValidAt(time.Now()))
	assert.False(t, cert.ValidAt(time.Now().Add(2*time.Hour)))

	var nilCert *Certificate
	assert.Nil(t, nilCert.X509())
}

func TestFormatSerial(t *testing.T) {
	assert.Equal(t, "00000000000000000000000000000001", FormatSerial(big.NewInt(1)))
	assert.Len(t, FormatSerial(new(big.Int).Lsh(big.NewInt(1), 126)), SerialHexLength)
	assert.Empty(t, FormatSerial(nil))
}

func TestNormalizeSerial(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "lowercase", input: "0123456789abcdef0123456789abcdef", want: "0123456789abcdef0123456789abcdef"},
		{name: "uppercase", input: "0123456789ABCDEF0123456789ABCDEF", want: "0123456789abcdef0123456789abcdef"},
		{name: "surrounding space", input: " 0123456789abcdef0123456789abcdef\n", want: "0123456789abcdef0123456789abcdef"},
		{name: "too short", input: "abc", wantErr: true},
		{name: "too long", input: "0123456789abcdef0123456789abcdef00", wantErr: true},
		{name: "not hex", input: "0123456789abcdef0123456789abcdeg", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSerial(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSerial)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
