package domain

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0x01, 0x02, 0x03}

	t.Run("Success_StandardBase64", func(t *testing.T) {
		sig, err := ParseSignature(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, Signature(raw), sig)
	})

	t.Run("Error_Base64URL", func(t *testing.T) {
		_, err := ParseSignature(base64.URLEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrInvalidSignatureFormat)
	})

	t.Run("Error_Unpadded", func(t *testing.T) {
		_, err := ParseSignature(base64.RawStdEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrInvalidSignatureFormat)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		_, err := ParseSignature("")
		assert.ErrorIs(t, err, ErrInvalidSignatureFormat)
	})

	t.Run("Error_SurroundingWhitespace", func(t *testing.T) {
		_, err := ParseSignature(" " + base64.StdEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrInvalidSignatureFormat)
	})
}

func TestSignature_String(t *testing.T) {
	sig := Signature{0x00, 0x01, 0x02}
	assert.Equal(t, "AAEC", sig.String())

	parsed, err := ParseSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}

func TestSignature_JSON(t *testing.T) {
	type payload struct {
		Signature Signature `json:"signature"`
	}

	data, err := json.Marshal(payload{Signature: Signature{0x00, 0x01, 0x02}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"signature":"AAEC"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Signature{0x00, 0x01, 0x02}, decoded.Signature)

	err = json.Unmarshal([]byte(`{"signature":"AAEC-_"}`), &decoded)
	assert.Error(t, err)
}
