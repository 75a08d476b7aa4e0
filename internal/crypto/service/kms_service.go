package service

import (
	"context"
	"errors"
	"fmt"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

var (
	// ErrKMSKeyURIRequired indicates no KMS key URI was configured.
	ErrKMSKeyURIRequired = errors.New("KMS_KEY_URI is required to seal the root private key")

	// ErrUnsealFailed indicates the KMS refused the ciphertext: wrong key or
	// tampered data.
	ErrUnsealFailed = errors.New("kms rejected sealed data")
)

type kmsService struct {
	open func(ctx context.Context, keyURI string) (*secrets.Keeper, error)
}

// NewKMSService returns a KMSService backed by gocloud.dev/secrets keepers.
// Each call opens and closes its own keeper.
func NewKMSService() KMSService {
	return &kmsService{open: secrets.OpenKeeper}
}

func (k *kmsService) withKeeper(ctx context.Context, keyURI string, fn func(*secrets.Keeper) error) error {
	if keyURI == "" {
		return ErrKMSKeyURIRequired
	}
	keeper, err := k.open(ctx, keyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()
	return fn(keeper)
}

func (k *kmsService) Seal(ctx context.Context, keyURI string, plaintext []byte) ([]byte, error) {
	var sealed []byte
	err := k.withKeeper(ctx, keyURI, func(keeper *secrets.Keeper) error {
		var err error
		if sealed, err = keeper.Encrypt(ctx, plaintext); err != nil {
			return fmt.Errorf("failed to seal: %w", err)
		}
		return nil
	})
	return sealed, err
}

func (k *kmsService) Unseal(ctx context.Context, keyURI string, sealed []byte) ([]byte, error) {
	var plaintext []byte
	err := k.withKeeper(ctx, keyURI, func(keeper *secrets.Keeper) error {
		var err error
		if plaintext, err = keeper.Decrypt(ctx, sealed); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsealFailed, err)
		}
		return nil
	})
	return plaintext, err
}
