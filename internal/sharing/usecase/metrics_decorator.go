package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/securevault/internal/metrics"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

const metricsDomain = "sharing"

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{next: useCase, metrics: m}
}

func (f *fileUseCaseWithMetrics) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.UploadFileInput,
) (*sharingDomain.File, error) {
	start := time.Now()
	file, err := f.next.Upload(ctx, ownerID, input)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_upload", start, err != nil)
	if err == nil {
		metrics.ObservePayload(ctx, f.metrics, metricsDomain, "file_upload", len(input.Content))
	}
	return file, err
}

func (f *fileUseCaseWithMetrics) Share(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.ShareFileInput,
) (*sharingDomain.ShareFileOutput, error) {
	start := time.Now()
	output, err := f.next.Share(ctx, ownerID, input)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_share", start, err != nil)
	return output, err
}

func (f *fileUseCaseWithMetrics) Download(
	ctx context.Context,
	userID, fileID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.DownloadFileOutput, error) {
	start := time.Now()
	output, err := f.next.Download(ctx, userID, fileID, privateKeyPEM)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_download", start, err != nil)
	if err == nil {
		metrics.ObservePayload(ctx, f.metrics, metricsDomain, "file_download", len(output.Content))
	}
	return output, err
}

func (f *fileUseCaseWithMetrics) Get(ctx context.Context, userID, fileID uuid.UUID) (*sharingDomain.File, error) {
	start := time.Now()
	file, err := f.next.Get(ctx, userID, fileID)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_get", start, err != nil)
	return file, err
}

func (f *fileUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	start := time.Now()
	files, err := f.next.List(ctx, userID, offset, limit)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_list", start, err != nil)
	return files, err
}

func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	start := time.Now()
	err := f.next.Delete(ctx, userID, fileID)
	metrics.Observe(ctx, f.metrics, metricsDomain, "file_delete", start, err != nil)
	return err
}

// messageUseCaseWithMetrics decorates MessageUseCase with metrics instrumentation.
type messageUseCaseWithMetrics struct {
	next    MessageUseCase
	metrics metrics.BusinessMetrics
}

// NewMessageUseCaseWithMetrics wraps a MessageUseCase with metrics recording.
func NewMessageUseCaseWithMetrics(useCase MessageUseCase, m metrics.BusinessMetrics) MessageUseCase {
	return &messageUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *messageUseCaseWithMetrics) Send(
	ctx context.Context,
	senderID uuid.UUID,
	input *sharingDomain.SendMessageInput,
) (*sharingDomain.Message, error) {
	start := time.Now()
	message, err := u.next.Send(ctx, senderID, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, "message_send", start, err != nil)
	if err == nil {
		metrics.ObservePayload(ctx, u.metrics, metricsDomain, "message_send", len(input.Content))
	}
	return message, err
}

func (u *messageUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	start := time.Now()
	messages, err := u.next.List(ctx, userID, offset, limit)
	metrics.Observe(ctx, u.metrics, metricsDomain, "message_list", start, err != nil)
	return messages, err
}

func (u *messageUseCaseWithMetrics) Read(
	ctx context.Context,
	userID, messageID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.ReadMessageOutput, error) {
	start := time.Now()
	output, err := u.next.Read(ctx, userID, messageID, privateKeyPEM)
	metrics.Observe(ctx, u.metrics, metricsDomain, "message_read", start, err != nil)
	if err == nil {
		metrics.ObservePayload(ctx, u.metrics, metricsDomain, "message_read", len(output.Content))
	}
	return output, err
}

func (u *messageUseCaseWithMetrics) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	start := time.Now()
	err := u.next.Delete(ctx, userID, messageID)
	metrics.Observe(ctx, u.metrics, metricsDomain, "message_delete", start, err != nil)
	return err
}
