// Package dto provides data transfer objects for the file and message endpoints.
package dto

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// maxRecipientsPerRequest bounds how many users one upload or share names.
const maxRecipientsPerRequest = 50

// UploadFileRequest holds the non-file fields of a multipart upload.
type UploadFileRequest struct {
	// ShareWith accepts repeated fields and comma separated lists.
	ShareWith  []string `form:"share_with"`
	PrivateKey string   `form:"private_key"`
}

// Normalize splits comma separated usernames and drops blanks.
func (r *UploadFileRequest) Normalize() {
	r.ShareWith = splitUsernames(r.ShareWith)
}

// Validate checks if the upload request is valid.
func (r *UploadFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ShareWith,
			validation.Length(0, maxRecipientsPerRequest),
			validation.Each(customValidation.Username),
		),
		validation.Field(&r.PrivateKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomain maps the request and file part to the use case input.
func (r *UploadFileRequest) ToDomain(name, mimeType string, content []byte) *sharingDomain.UploadFileInput {
	return &sharingDomain.UploadFileInput{
		Name:          name,
		MimeType:      mimeType,
		Content:       content,
		ShareWith:     r.ShareWith,
		PrivateKeyPEM: r.PrivateKey,
	}
}

// ShareFileRequest names users to grant access to.
type ShareFileRequest struct {
	Usernames  []string `json:"usernames"`
	PrivateKey string   `json:"private_key"`
}

// Validate checks if the share request is valid.
func (r *ShareFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Usernames,
			validation.Required,
			validation.Length(1, maxRecipientsPerRequest),
			validation.Each(customValidation.Username),
		),
		validation.Field(&r.PrivateKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomain maps the request to the use case input.
func (r *ShareFileRequest) ToDomain(fileID uuid.UUID) *sharingDomain.ShareFileInput {
	return &sharingDomain.ShareFileInput{
		FileID:        fileID,
		Usernames:     r.Usernames,
		PrivateKeyPEM: r.PrivateKey,
	}
}

// PrivateKeyRequest carries the private key needed to decrypt a payload.
type PrivateKeyRequest struct {
	PrivateKey string `json:"private_key"`
}

// Validate checks if the request is valid.
func (r *PrivateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PrivateKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// SendMessageRequest contains a plaintext message to encrypt.
type SendMessageRequest struct {
	Recipient  string `json:"recipient"`
	Content    string `json:"content"`
	PrivateKey string `json:"private_key"`
}

// Validate checks if the send request is valid.
func (r *SendMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Recipient,
			validation.Required,
			customValidation.Username,
		),
		validation.Field(&r.Content,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, sharingDomain.MaxMessageSize),
		),
		validation.Field(&r.PrivateKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomain maps the request to the use case input.
func (r *SendMessageRequest) ToDomain() *sharingDomain.SendMessageInput {
	return &sharingDomain.SendMessageInput{
		RecipientUsername: r.Recipient,
		Content:           r.Content,
		PrivateKeyPEM:     r.PrivateKey,
	}
}

func splitUsernames(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, username := range strings.Split(value, ",") {
			if username = strings.TrimSpace(username); username != "" {
				out = append(out, username)
			}
		}
	}
	return out
}
