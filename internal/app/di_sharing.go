package app

import (
	"context"
	"fmt"

	sharingHTTP "github.com/allisson/securevault/internal/sharing/http"
	sharingRepository "github.com/allisson/securevault/internal/sharing/repository"
	"github.com/allisson/securevault/internal/sharing/storage"
	sharingUseCase "github.com/allisson/securevault/internal/sharing/usecase"
)

// BlobStore returns the bucket holding encrypted file contents.
func (c *Container) BlobStore(ctx context.Context) (*storage.BlobStore, error) {
	return c.blobStore.get(func() (*storage.BlobStore, error) {
		return storage.OpenBlobStore(ctx, c.config.BlobBucketURL)
	})
}

func (c *Container) FileRepository() (sharingUseCase.FileRepository, error) {
	return c.fileRepository.get(func() (sharingUseCase.FileRepository, error) {
		db, err := c.driverDB("file repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return sharingRepository.NewMySQLFileRepository(db), nil
		}
		return sharingRepository.NewPostgreSQLFileRepository(db), nil
	})
}

func (c *Container) MessageRepository() (sharingUseCase.MessageRepository, error) {
	return c.messageRepository.get(func() (sharingUseCase.MessageRepository, error) {
		db, err := c.driverDB("message repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return sharingRepository.NewMySQLMessageRepository(db), nil
		}
		return sharingRepository.NewPostgreSQLMessageRepository(db), nil
	})
}

// FileUseCase returns the encrypted file use case. The user repository serves
// as the recipient directory.
func (c *Container) FileUseCase() (sharingUseCase.FileUseCase, error) {
	return c.fileUseCase.get(c.initFileUseCase)
}

// MessageUseCase returns the encrypted message use case.
func (c *Container) MessageUseCase() (sharingUseCase.MessageUseCase, error) {
	return c.messageUseCase.get(c.initMessageUseCase)
}

func (c *Container) FileHandler() (*sharingHTTP.FileHandler, error) {
	return c.fileHandler.get(func() (*sharingHTTP.FileHandler, error) {
		files, err := c.FileUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get file use case for file handler: %w", err)
		}
		return sharingHTTP.NewFileHandler(files, c.config.MaxUploadSize, c.Logger()), nil
	})
}

func (c *Container) MessageHandler() (*sharingHTTP.MessageHandler, error) {
	return c.messageHandler.get(func() (*sharingHTTP.MessageHandler, error) {
		messages, err := c.MessageUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get message use case for message handler: %w", err)
		}
		return sharingHTTP.NewMessageHandler(messages, c.Logger()), nil
	})
}

func (c *Container) initFileUseCase() (sharingUseCase.FileUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}
	fileRepo, err := c.FileRepository()
	if err != nil {
		return nil, err
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, err
	}
	blobs, err := c.BlobStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	ca, err := c.CertificateAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate authority for file use case: %w", err)
	}
	hybridCipher, err := c.HybridCipher()
	if err != nil {
		return nil, err
	}

	useCase := sharingUseCase.NewFileUseCase(
		txManager,
		fileRepo,
		userRepo,
		blobs,
		ca,
		hybridCipher,
		c.SignatureEngine(),
		c.config.MaxUploadSize,
		c.Logger(),
	)
	return withMetrics(c, useCase, sharingUseCase.NewFileUseCaseWithMetrics)
}

func (c *Container) initMessageUseCase() (sharingUseCase.MessageUseCase, error) {
	messageRepo, err := c.MessageRepository()
	if err != nil {
		return nil, err
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, err
	}
	ca, err := c.CertificateAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate authority for message use case: %w", err)
	}
	hybridCipher, err := c.HybridCipher()
	if err != nil {
		return nil, err
	}

	useCase := sharingUseCase.NewMessageUseCase(
		messageRepo,
		userRepo,
		ca,
		hybridCipher,
		c.SignatureEngine(),
		c.Logger(),
	)
	return withMetrics(c, useCase, sharingUseCase.NewMessageUseCaseWithMetrics)
}
