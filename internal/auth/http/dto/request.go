// Package dto provides data transfer objects for the registration, login and
// user lookup endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// RegisterRequest contains the identity to certify.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate checks if the register request is valid.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.Username,
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
			validation.Length(3, 254),
		),
	)
}

// ToDomain maps the request to the use case input.
func (r *RegisterRequest) ToDomain() *authDomain.RegisterUserInput {
	return &authDomain.RegisterUserInput{
		Username: r.Username,
		Email:    r.Email,
	}
}

// LoginRequest contains a signed challenge.
type LoginRequest struct {
	Username  string `json:"username"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Challenge,
			validation.Required,
			customValidation.RawBase64URL,
		),
		validation.Field(&r.Signature,
			validation.Required,
			customValidation.CanonicalBase64,
		),
	)
}

// ToDomain maps the request to the use case input.
func (r *LoginRequest) ToDomain() *authDomain.LoginInput {
	return &authDomain.LoginInput{
		Username:  r.Username,
		Challenge: r.Challenge,
		Signature: r.Signature,
	}
}
