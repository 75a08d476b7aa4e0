package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Authentication errors.
var (
	// ErrUserNotFound indicates no user matches the lookup.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username or email is taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "username or email already exists")

	// ErrInvalidUsername indicates the username does not match the allowed format.
	ErrInvalidUsername = errors.Wrap(
		errors.ErrInvalidInput,
		"username must be 3 to 20 characters of letters, numbers or underscores",
	)

	// ErrInvalidEmail indicates the email address is malformed.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email address")

	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown users, unknown challenges, bad
	// certificates and bad signatures alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMalformedToken indicates a bearer token that no login could have issued.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed session token")

	// ErrChallengeExpired indicates the challenge outlived its TTL; request a new one.
	ErrChallengeExpired = errors.WithCode(
		errors.Wrap(errors.ErrUnauthorized, "challenge expired"),
		"challenge_expired",
		"The challenge can no longer be used, request a new one",
	)

	// ErrChallengeAlreadyConsumed indicates the challenge was already answered.
	ErrChallengeAlreadyConsumed = errors.WithCode(
		errors.Wrap(errors.ErrUnauthorized, "challenge already used"),
		"challenge_already_consumed",
		"The challenge can no longer be used, request a new one",
	)
)
