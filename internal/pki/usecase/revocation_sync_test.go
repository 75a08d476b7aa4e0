package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	pkiMocks "github.com/allisson/securevault/internal/pki/usecase/mocks"
)

func TestRevocationSync_Start(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("Success_RefreshesUntilCancelled", func(t *testing.T) {
		ca := &pkiMocks.MockCertificateAuthority{}
		refreshed := make(chan struct{}, 10)
		ca.On("RefreshRevocations", mock.Anything).
			Run(func(args mock.Arguments) { refreshed <- struct{}{} }).
			Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- NewRevocationSync(10*time.Millisecond, ca, testLogger()).Start(ctx)
		}()

		<-refreshed
		<-refreshed
		cancel()

		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("Success_ContinuesAfterRefreshError", func(t *testing.T) {
		ca := &pkiMocks.MockCertificateAuthority{}
		refreshed := make(chan struct{}, 10)
		ca.On("RefreshRevocations", mock.Anything).
			Run(func(args mock.Arguments) { refreshed <- struct{}{} }).
			Return(errors.New("database unavailable"))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- NewRevocationSync(10*time.Millisecond, ca, testLogger()).Start(ctx)
		}()

		<-refreshed
		<-refreshed
		cancel()

		assert.ErrorIs(t, <-done, context.Canceled)
	})
}
