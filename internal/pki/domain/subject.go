package domain

import (
	"crypto/x509/pkix"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Subject is the identity bound into a certificate.
type Subject struct {
	CommonName   string `json:"common_name"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email"`
}

// Validate checks that CommonName and Email are present, every field fits its
// length bound and Email is a bare address.
func (s Subject) Validate() error {
	if strings.TrimSpace(s.CommonName) == "" {
		return fmt.Errorf("%w: common name is required", ErrInvalidSubject)
	}
	if strings.TrimSpace(s.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidSubject)
	}
	for _, field := range []struct {
		name  string
		value string
		max   int
	}{
		{"common name", s.CommonName, MaxCommonNameLength},
		{"organization", s.Organization, MaxOrganizationLength},
		{"email", s.Email, MaxEmailLength},
	} {
		if utf8.RuneCountInString(field.value) > field.max {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidSubject, field.name, field.max)
		}
	}
	addr, err := mail.ParseAddress(s.Email)
	if err != nil || addr.Address != s.Email {
		return fmt.Errorf("%w: email is malformed", ErrInvalidSubject)
	}
	return nil
}

// PKIXName renders the subject as an X.509 distinguished name.
func (s Subject) PKIXName() pkix.Name {
	name := pkix.Name{CommonName: s.CommonName}
	if s.Organization != "" {
		name.Organization = []string{s.Organization}
	}
	if s.Email != "" {
		name.ExtraNames = []pkix.AttributeTypeAndValue{
			{Type: OIDEmailAddress, Value: s.Email},
		}
	}
	return name
}

// String returns a compact human readable form.
func (s Subject) String() string {
	parts := []string{"CN=" + s.CommonName}
	if s.Organization != "" {
		parts = append(parts, "O="+s.Organization)
	}
	if s.Email != "" {
		parts = append(parts, "emailAddress="+s.Email)
	}
	return strings.Join(parts, ", ")
}

// SubjectFromPKIXName extracts a Subject from a parsed distinguished name.
func SubjectFromPKIXName(name pkix.Name) Subject {
	s := Subject{CommonName: name.CommonName}
	if len(name.Organization) > 0 {
		s.Organization = name.Organization[0]
	}
	for _, attr := range name.Names {
		if attr.Type.Equal(OIDEmailAddress) {
			if email, ok := attr.Value.(string); ok {
				s.Email = email
				break
			}
		}
	}
	return s
}
