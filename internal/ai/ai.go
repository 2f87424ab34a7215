package ai

import (
	"context"
	"fmt"
)

// Generator sends a single prompt to a language model and returns the textual reply.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ServiceError reports a failed call to the AI provider. Callers treat it as
// degraded output rather than a reason to abort.
type ServiceError struct {
	Op       string
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ai %s (%s): %v", e.Op, e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
