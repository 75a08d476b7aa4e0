// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"encoding/pem"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/securevault/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// usernameRegex allows 3 to 20 letters, digits or underscores
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

	// serialRegex matches a certificate serial as issued by the CA
	serialRegex = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Username validates the account name format used as certificate common name.
var Username = validation.NewStringRuleWithError(
	func(s string) bool {
		return usernameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_username_format",
		"must be 3 to 20 characters of letters, numbers or underscores",
	),
)

// Serial validates a 32 character hexadecimal certificate serial.
var Serial = validation.NewStringRuleWithError(
	func(s string) bool {
		return serialRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_serial_format", "must be a 32 character hexadecimal serial"),
)

// PEMBlock validates that a string holds exactly one PEM block of the given type.
func PEMBlock(blockType string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_pem_type", "must be a string")
		}
		if s == "" {
			return nil // Let Required handle empty strings
		}
		block, rest := pem.Decode([]byte(s))
		if block == nil || block.Type != blockType {
			return validation.NewError("validation_pem_block", "must be a PEM encoded "+blockType)
		}
		if strings.TrimSpace(string(rest)) != "" {
			return validation.NewError("validation_pem_trailing", "must contain a single PEM block")
		}
		return nil
	})
}

// CanonicalBase64 accepts padded standard base64 whose decoding re-encodes to
// the same text. Signatures are compared as text, so alternate spellings of
// the same bytes must not pass.
var CanonicalBase64 = validation.NewStringRuleWithError(
	func(s string) bool {
		raw, err := base64.StdEncoding.Strict().DecodeString(s)
		return err == nil && base64.StdEncoding.EncodeToString(raw) == s
	},
	validation.NewError("validation_base64", "must be canonical base64-encoded data"),
)

// RawBase64URL accepts unpadded base64url whose decoding re-encodes to the same text.
var RawBase64URL = validation.NewStringRuleWithError(
	func(s string) bool {
		raw, err := base64.RawURLEncoding.Strict().DecodeString(s)
		return err == nil && base64.RawURLEncoding.EncodeToString(raw) == s
	},
	validation.NewError("validation_base64url", "must be unpadded base64url-encoded data"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
