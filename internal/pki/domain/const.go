package domain

import (
	"encoding/asn1"
	"time"
)

const (
	// SerialBytes is the number of random bytes in a certificate serial.
	SerialBytes = 16

	// SerialHexLength is the width of the hex rendering of a serial.
	SerialHexLength = SerialBytes * 2

	// PEMTypeCertificate is the PEM block type of an encoded certificate.
	PEMTypeCertificate = "CERTIFICATE"

	// DefaultRootValidity is the lifetime of a freshly created root certificate.
	DefaultRootValidity = 10 * 365 * 24 * time.Hour

	// DefaultCertValidity is the lifetime of an issued leaf certificate.
	DefaultCertValidity = 365 * 24 * time.Hour

	// MaxCommonNameLength and MaxOrganizationLength are the RFC 5280 upper
	// bounds, in characters.
	MaxCommonNameLength   = 64
	MaxOrganizationLength = 64

	// MaxEmailLength bounds the subject email address.
	MaxEmailLength = 255

	// MaxRevocationReasonLength bounds a stored revocation reason.
	MaxRevocationReasonLength = 255
)

// OIDEmailAddress is the PKCS#9 emailAddress attribute placed in subject names.
var OIDEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
