// Package storage keeps encrypted file contents in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Register blob drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

const ciphertextContentType = "application/octet-stream"

// BlobStore stores ciphertext by key. Plaintext never reaches the bucket.
type BlobStore struct {
	bucket *blob.Bucket
}

// OpenBlobStore opens the bucket at bucketURL.
// Supports: file:///path, mem://
func OpenBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}
	return NewBlobStore(bucket), nil
}

// NewBlobStore wraps an already opened bucket.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Put writes data under key, replacing any previous content.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: ciphertextContentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Get reads the content stored under key. Returns ErrContentNotFound if absent.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, sharingDomain.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Ping checks the bucket is reachable.
func (s *BlobStore) Ping(ctx context.Context) error {
	if _, err := s.bucket.IsAccessible(ctx); err != nil {
		return fmt.Errorf("blob bucket is not accessible: %w", err)
	}
	return nil
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
