package dto

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{Username: "alice_01", Email: "alice@example.com"}, false},
		{"missing username", RegisterRequest{Email: "alice@example.com"}, true},
		{"short username", RegisterRequest{Username: "al", Email: "alice@example.com"}, true},
		{"username with dash", RegisterRequest{Username: "alice-b", Email: "alice@example.com"}, true},
		{"long username", RegisterRequest{Username: strings.Repeat("a", 21), Email: "alice@example.com"}, true},
		{"missing email", RegisterRequest{Username: "alice"}, true},
		{"invalid email", RegisterRequest{Username: "alice", Email: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	challenge := base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{0xfb}, 32))

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Username: "alice", Challenge: challenge, Signature: "c2ln"}, false},
		{"missing username", LoginRequest{Challenge: challenge, Signature: "c2ln"}, true},
		{"blank username", LoginRequest{Username: "   ", Challenge: challenge, Signature: "c2ln"}, true},
		{"padded username", LoginRequest{Username: " alice", Challenge: challenge, Signature: "c2ln"}, true},
		{"missing challenge", LoginRequest{Username: "alice", Signature: "c2ln"}, true},
		{"challenge with whitespace", LoginRequest{Username: "alice", Challenge: "a b", Signature: "c2ln"}, true},
		{"challenge padded", LoginRequest{Username: "alice", Challenge: challenge + "=", Signature: "c2ln"}, true},
		{"challenge standard alphabet", LoginRequest{Username: "alice", Challenge: "ab+/", Signature: "c2ln"}, true},
		{"signature not base64", LoginRequest{Username: "alice", Challenge: challenge, Signature: "not base64!"}, true},
		{"signature unpadded", LoginRequest{Username: "alice", Challenge: challenge, Signature: "c2lnbg"}, true},
		{"missing signature", LoginRequest{Username: "alice", Challenge: challenge}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterRequest_ToDomain(t *testing.T) {
	req := RegisterRequest{Username: "alice", Email: "alice@example.com"}

	input := req.ToDomain()

	assert.Equal(t, "alice", input.Username)
	assert.Equal(t, "alice@example.com", input.Email)
}
