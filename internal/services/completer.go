package services

import (
	"context"

	"github.com/reflalabs/refla-backend/internal/ai"
)

// Completer is the generative-model boundary: an ordered list of role-tagged
// turns plus a sampling temperature, returning completion text or failing.
// The pipelines depend on this interface so the transport (and any future
// retry wrapper) stays swappable.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message, temperature float64) (string, error)
}
