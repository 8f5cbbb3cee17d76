package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/evalladares-t/transaction-service/internal/middleware"
)

// PatchFunc issues one remote balance patch.
type PatchFunc func(ctx context.Context) error

// BalancePatchPolicy decides how the engine relates a remote balance patch to
// the rest of the operation. The source system issued patches and discarded
// their outcome; that stays the default here, but as a named, swappable
// policy instead of an implicit background effect.
type BalancePatchPolicy interface {
	// Apply runs the patch. A nil return under fire-and-forget only means the
	// patch was dispatched, not that it succeeded.
	Apply(ctx context.Context, target string, patch PatchFunc) error
}

const fireAndForgetTimeout = 30 * time.Second

// FireAndForgetPolicy dispatches the patch on its own goroutine and logs the
// outcome. The caller proceeds immediately, so a persisted transaction can
// exist whose balance update failed or is still in flight.
type FireAndForgetPolicy struct{}

func (FireAndForgetPolicy) Apply(ctx context.Context, target string, patch PatchFunc) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	// The patch must outlive the request that spawned it.
	detached := context.WithoutCancel(ctx)
	go func() {
		patchCtx, cancel := context.WithTimeout(detached, fireAndForgetTimeout)
		defer cancel()
		if err := patch(patchCtx); err != nil {
			logger.Error("Balance patch failed",
				slog.String("target", target),
				slog.String("error", err.Error()))
			return
		}
		logger.Debug("Balance patch applied", slog.String("target", target))
	}()
	return nil
}

// AwaitPolicy runs the patch synchronously; a failed patch aborts the
// operation before anything is persisted.
type AwaitPolicy struct{}

func (AwaitPolicy) Apply(ctx context.Context, target string, patch PatchFunc) error {
	return patch(ctx)
}

// NewBalancePatchPolicy maps a configured policy name to an implementation.
// Unknown names fall back to fire-and-forget, the source system's behavior.
func NewBalancePatchPolicy(name string) BalancePatchPolicy {
	if name == "await" {
		return AwaitPolicy{}
	}
	return FireAndForgetPolicy{}
}
