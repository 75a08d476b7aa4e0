package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/securevault/internal/errors"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "letters", input: "alice", shouldErr: false},
		{name: "letters digits underscore", input: "bob_42", shouldErr: false},
		{name: "minimum length", input: "abc", shouldErr: false},
		{name: "maximum length", input: "abcdefghijklmnopqrst", shouldErr: false},
		{name: "too short", input: "ab", shouldErr: true},
		{name: "too long", input: "abcdefghijklmnopqrstu", shouldErr: true},
		{name: "hyphen", input: "alice-b", shouldErr: true},
		{name: "space", input: "alice b", shouldErr: true},
		{name: "dot", input: "alice.b", shouldErr: true},
		{name: "non ascii", input: "alicé", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSerial(t *testing.T) {
	assert.NoError(t, Serial.Validate("0123456789abcdef0123456789ABCDEF"))
	assert.NoError(t, Serial.Validate(""), "empty is left to Required")
	assert.Error(t, Serial.Validate("0123456789abcdef"))
	assert.Error(t, Serial.Validate("zz23456789abcdef0123456789abcdef"))
}

func TestPEMBlock(t *testing.T) {
	const publicKey = "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"
	rule := PEMBlock("PUBLIC KEY")

	tests := []struct {
		name      string
		input     interface{}
		shouldErr bool
		errMsg    string
	}{
		{name: "valid block", input: publicKey},
		{name: "empty string", input: ""},
		{name: "trailing whitespace", input: publicKey + "\n\n"},
		{
			name:      "wrong type",
			input:     "-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n",
			shouldErr: true,
			errMsg:    "PUBLIC KEY",
		},
		{name: "not pem", input: "hello", shouldErr: true, errMsg: "PUBLIC KEY"},
		{name: "two blocks", input: publicKey + publicKey, shouldErr: true, errMsg: "single PEM block"},
		{name: "not a string", input: 42, shouldErr: true, errMsg: "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStringRules(t *testing.T) {
	type check struct {
		input string
		valid bool
	}
	rules := map[string]struct {
		rule   validation.Rule
		checks []check
	}{
		"Email": {Email, []check{
			{"alice@example.com", true},
			{"alice+certs@pki.example.org", true},
			{"first.last@mail.example.com", true},
			{"alice.example.com", false},
			{"alice@", false},
			{"@example.com", false},
			{"alice@localhost", false},
			{"alice @example.com", false},
		}},
		"NoWhitespace": {NoWhitespace, []check{
			{"c2lnbmF0dXJl", true},
			{"with inner space", true},
			{" c2lnbmF0dXJl", false},
			{"c2lnbmF0dXJl\n", false},
		}},
		"NotBlank": {NotBlank, []check{
			{"Root CA", true},
			{"   ", false},
			{"\t\n", false},
		}},
	}

	for name, tc := range rules {
		for _, c := range tc.checks {
			err := tc.rule.Validate(c.input)
			if c.valid {
				assert.NoError(t, err, "%s(%q)", name, c.input)
			} else {
				assert.Error(t, err, "%s(%q)", name, c.input)
			}
		}
	}
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(validation.Errors{"username": validation.ErrRequired})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "username: cannot be blank")
}

func TestCanonicalBase64(t *testing.T) {
	tests := map[string]bool{
		"":          true, // left to Required
		"c2lnbg==":  true,
		"c2ln":      true,
		"c2lnbg":    false,
		"-_-_":      false,
		"c2lnbh==":  false,
		"c2ln bg==": false,
	}
	for value, ok := range tests {
		err := CanonicalBase64.Validate(value)
		assert.Equal(t, ok, err == nil, "%q: %v", value, err)
	}
	assert.Error(t, CanonicalBase64.Validate(42))
}

func TestRawBase64URL(t *testing.T) {
	tests := map[string]bool{
		"":                       true, // left to Required
		"c2lnbg":                 true,
		"-_-_":                   true,
		"q83vEjRWeJCrze8SNFZ4kA": true,
		"c2lnbg==":               false,
		"c2l+bg":                 false,
		"c2l/bg":                 false,
		"a b":                    false,
		" c2lnbg":                false,
		"c2lnbh":                 false,
	}
	for value, ok := range tests {
		err := RawBase64URL.Validate(value)
		assert.Equal(t, ok, err == nil, "%q: %v", value, err)
	}
}
