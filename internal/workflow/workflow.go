// Package workflow drives employee registration and search end to end.
package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/employee"
)

// State is a step of a workflow run.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateExtracting  State = "extracting"
	StateStructuring State = "structuring"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
	StateMatching    State = "matching"
	StatePresenting  State = "presenting"
)

// TagExtractor returns keyword tags for text. It returns an empty slice with an
// *ai.ServiceError when the AI call fails.
type TagExtractor interface {
	ExtractTags(ctx context.Context, text string) ([]string, error)
}

// ProfileStructurer returns the three-section profile for text, or a fallback
// marker with an *ai.ServiceError.
type ProfileStructurer interface {
	Structure(ctx context.Context, text string) (string, error)
}

// Notifier is told about every successfully persisted registration.
type Notifier interface {
	EmployeeRegistered(ctx context.Context, runID string, record employee.Record) error
}

// Deps bundles the collaborators shared by both workflows.
type Deps struct {
	Tagger     TagExtractor
	Structurer ProfileStructurer
	Store      employee.Store
	Notifier   Notifier
	Logger     *zap.Logger
}

type tracker struct {
	logger *zap.Logger
	trace  []State
}

func (t *tracker) enter(state State) {
	t.trace = append(t.trace, state)
	t.logger.Debug("workflow state", zap.String("state", string(state)))
}

func newRunID() string {
	return uuid.NewString()
}

// warning converts a non-fatal AI failure into a message for the user surface.
// Errors of any other kind are returned unchanged in the second value.
func warning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	var svcErr *ai.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Error(), nil
	}
	return "", err
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
