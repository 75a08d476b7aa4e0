// Package mocks provides mock implementations of the sharing use cases,
// repositories and blob store for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// MockFileRepository is a mock implementation of FileRepository.
type MockFileRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockFileRepository) Create(ctx context.Context, file *sharingDomain.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

// GetByID mocks the GetByID method.
func (m *MockFileRepository) GetByID(ctx context.Context, fileID uuid.UUID) (*sharingDomain.File, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.File), args.Error(1)
}

// ListByUser mocks the ListByUser method.
func (m *MockFileRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.File), args.Error(1)
}

// AddRecipients mocks the AddRecipients method.
func (m *MockFileRepository) AddRecipients(ctx context.Context, recipients []*sharingDomain.FileRecipient) error {
	args := m.Called(ctx, recipients)
	return args.Error(0)
}

// MarkAccessed mocks the MarkAccessed method.
func (m *MockFileRepository) MarkAccessed(ctx context.Context, fileID uuid.UUID, accessedAt time.Time) error {
	args := m.Called(ctx, fileID, accessedAt)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockFileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMessageRepository) Create(ctx context.Context, message *sharingDomain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// GetByID mocks the GetByID method.
func (m *MockMessageRepository) GetByID(ctx context.Context, messageID uuid.UUID) (*sharingDomain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Message), args.Error(1)
}

// ListByUser mocks the ListByUser method.
func (m *MockMessageRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.Message), args.Error(1)
}

// MarkRead mocks the MarkRead method.
func (m *MockMessageRepository) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockMessageRepository) Delete(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockUserDirectory is a mock implementation of UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

// GetByID mocks the GetByID method.
func (m *MockUserDirectory) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// GetByUsername mocks the GetByUsername method.
func (m *MockUserDirectory) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// MockBlobStore is a mock implementation of BlobStore.
type MockBlobStore struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockBlobStore) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockFileUseCase is a mock implementation of FileUseCase.
type MockFileUseCase struct {
	mock.Mock
}

// Upload mocks the Upload method.
func (m *MockFileUseCase) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.UploadFileInput,
) (*sharingDomain.File, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.File), args.Error(1)
}

// Share mocks the Share method.
func (m *MockFileUseCase) Share(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.ShareFileInput,
) (*sharingDomain.ShareFileOutput, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.ShareFileOutput), args.Error(1)
}

// Download mocks the Download method.
func (m *MockFileUseCase) Download(
	ctx context.Context,
	userID, fileID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.DownloadFileOutput, error) {
	args := m.Called(ctx, userID, fileID, privateKeyPEM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.DownloadFileOutput), args.Error(1)
}

// Get mocks the Get method.
func (m *MockFileUseCase) Get(ctx context.Context, userID, fileID uuid.UUID) (*sharingDomain.File, error) {
	args := m.Called(ctx, userID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.File), args.Error(1)
}

// List mocks the List method.
func (m *MockFileUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.File), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockFileUseCase) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	args := m.Called(ctx, userID, fileID)
	return args.Error(0)
}

// MockMessageUseCase is a mock implementation of MessageUseCase.
type MockMessageUseCase struct {
	mock.Mock
}

// Send mocks the Send method.
func (m *MockMessageUseCase) Send(
	ctx context.Context,
	senderID uuid.UUID,
	input *sharingDomain.SendMessageInput,
) (*sharingDomain.Message, error) {
	args := m.Called(ctx, senderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Message), args.Error(1)
}

// List mocks the List method.
func (m *MockMessageUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.Message), args.Error(1)
}

// Read mocks the Read method.
func (m *MockMessageUseCase) Read(
	ctx context.Context,
	userID, messageID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.ReadMessageOutput, error) {
	args := m.Called(ctx, userID, messageID, privateKeyPEM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.ReadMessageOutput), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockMessageUseCase) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	args := m.Called(ctx, userID, messageID)
	return args.Error(0)
}

// MockTxManager is a mock implementation of database.TxManager.
// Unless an error is configured it runs fn with the given context.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
