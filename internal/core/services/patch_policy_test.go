package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/evalladares-t/transaction-service/internal/core/services"
)

func TestAwaitPolicy_ReturnsPatchError(t *testing.T) {
	policy := services.AwaitPolicy{}

	err := policy.Apply(context.Background(), "account test", func(ctx context.Context) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestAwaitPolicy_RunsSynchronously(t *testing.T) {
	policy := services.AwaitPolicy{}
	ran := false

	err := policy.Apply(context.Background(), "account test", func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, ran)
}

func TestFireAndForgetPolicy_ReturnsNilEvenWhenPatchFails(t *testing.T) {
	policy := services.FireAndForgetPolicy{}
	done := make(chan struct{})

	err := policy.Apply(context.Background(), "account test", func(ctx context.Context) error {
		close(done)
		return assert.AnError
	})

	assert.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("patch was never dispatched")
	}
}

func TestFireAndForgetPolicy_PatchOutlivesCancelledRequest(t *testing.T) {
	policy := services.FireAndForgetPolicy{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	patchCtxErr := make(chan error, 1)
	err := policy.Apply(ctx, "account test", func(ctx context.Context) error {
		patchCtxErr <- ctx.Err()
		return nil
	})

	assert.NoError(t, err)
	select {
	case ctxErr := <-patchCtxErr:
		assert.NoError(t, ctxErr)
	case <-time.After(2 * time.Second):
		t.Fatal("patch was never dispatched")
	}
}

func TestNewBalancePatchPolicy(t *testing.T) {
	assert.IsType(t, services.AwaitPolicy{}, services.NewBalancePatchPolicy("await"))
	assert.IsType(t, services.FireAndForgetPolicy{}, services.NewBalancePatchPolicy("fireandforget"))
	assert.IsType(t, services.FireAndForgetPolicy{}, services.NewBalancePatchPolicy(""))
	assert.IsType(t, services.FireAndForgetPolicy{}, services.NewBalancePatchPolicy("something-else"))
}
