package dto

import (
	"time"

	"github.com/google/uuid"

	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// RecipientResponse describes who a file is shared with.
type RecipientResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	SharedAt time.Time `json:"shared_at"`
}

// FileResponse represents file metadata in API responses. Content is never included.
type FileResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	MimeType       string              `json:"mime_type"`
	Size           int64               `json:"size"`
	Checksum       string              `json:"checksum"`
	Algorithm      string              `json:"algorithm"`
	Signature      string              `json:"signature"`
	OwnerID        string              `json:"owner_id"`
	OwnerUsername  string              `json:"owner_username"`
	IsOwner        bool                `json:"is_owner"`
	SharedWith     []RecipientResponse `json:"shared_with,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt *time.Time          `json:"last_accessed_at"`
}

// MapFileToResponse converts a file to an API response for viewerID.
// Only the owner sees the recipient list.
func MapFileToResponse(file *sharingDomain.File, viewerID uuid.UUID) FileResponse {
	response := FileResponse{
		ID:             file.ID.String(),
		Name:           file.Name,
		MimeType:       file.MimeType,
		Size:           file.Size,
		Checksum:       file.Checksum,
		Algorithm:      string(file.Algorithm),
		Signature:      file.Signature.String(),
		OwnerID:        file.OwnerID.String(),
		OwnerUsername:  file.OwnerUsername,
		IsOwner:        file.IsOwner(viewerID),
		CreatedAt:      file.CreatedAt,
		LastAccessedAt: file.LastAccessedAt,
	}
	if response.IsOwner {
		for _, r := range file.Recipients {
			if r.UserID == file.OwnerID {
				continue
			}
			response.SharedWith = append(response.SharedWith, RecipientResponse{
				UserID:   r.UserID.String(),
				Username: r.Username,
				SharedAt: r.SharedAt,
			})
		}
	}
	return response
}

// ListFilesResponse represents a page of files.
type ListFilesResponse struct {
	Data []FileResponse `json:"data"`
}

// MapFilesToListResponse converts files to a list response for viewerID.
func MapFilesToListResponse(files []*sharingDomain.File, viewerID uuid.UUID) ListFilesResponse {
	data := make([]FileResponse, 0, len(files))
	for _, file := range files {
		data = append(data, MapFileToResponse(file, viewerID))
	}
	return ListFilesResponse{Data: data}
}

// ShareFileResponse reports which users gained access.
type ShareFileResponse struct {
	File  FileResponse `json:"file"`
	Added []string     `json:"added"`
}

// MapShareOutputToResponse converts a share result to an API response.
func MapShareOutputToResponse(output *sharingDomain.ShareFileOutput, viewerID uuid.UUID) ShareFileResponse {
	return ShareFileResponse{
		File:  MapFileToResponse(output.File, viewerID),
		Added: output.Added,
	}
}

// MessageResponse represents message metadata. Content is only returned by the read endpoint.
type MessageResponse struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"sender_id"`
	SenderUsername    string    `json:"sender_username"`
	RecipientID       string    `json:"recipient_id"`
	RecipientUsername string    `json:"recipient_username"`
	Algorithm         string    `json:"algorithm"`
	Signature         string    `json:"signature"`
	IsRead            bool      `json:"is_read"`
	Direction         string    `json:"direction"`
	CreatedAt         time.Time `json:"created_at"`
}

// MapMessageToResponse converts a message to an API response for viewerID.
func MapMessageToResponse(message *sharingDomain.Message, viewerID uuid.UUID) MessageResponse {
	direction := "received"
	if message.SenderID == viewerID {
		direction = "sent"
	}
	return MessageResponse{
		ID:                message.ID.String(),
		SenderID:          message.SenderID.String(),
		SenderUsername:    message.SenderUsername,
		RecipientID:       message.RecipientID.String(),
		RecipientUsername: message.RecipientUsername,
		Algorithm:         string(message.Algorithm),
		Signature:         message.Signature.String(),
		IsRead:            message.IsRead,
		Direction:         direction,
		CreatedAt:         message.CreatedAt,
	}
}

// ListMessagesResponse represents a page of messages.
type ListMessagesResponse struct {
	Data []MessageResponse `json:"data"`
}

// MapMessagesToListResponse converts messages to a list response for viewerID.
func MapMessagesToListResponse(messages []*sharingDomain.Message, viewerID uuid.UUID) ListMessagesResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		data = append(data, MapMessageToResponse(message, viewerID))
	}
	return ListMessagesResponse{Data: data}
}

// ReadMessageResponse is a decrypted message.
type ReadMessageResponse struct {
	MessageResponse
	Content  string `json:"content"`
	Verified bool   `json:"verified"`
}

// MapReadOutputToResponse converts a read result to an API response.
// Only verified messages are returned by the use case.
func MapReadOutputToResponse(output *sharingDomain.ReadMessageOutput, viewerID uuid.UUID) ReadMessageResponse {
	return ReadMessageResponse{
		MessageResponse: MapMessageToResponse(output.Message, viewerID),
		Content:         output.Content,
		Verified:        true,
	}
}
