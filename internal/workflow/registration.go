package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
	"github.com/spigell/skillmatch/internal/logger"
)

const registrationWorkflow = "registration"

// RegistrationResult is what a successful registration reports back.
type RegistrationResult struct {
	RunID    string          `json:"run_id"`
	Record   employee.Record `json:"record"`
	Warnings []string        `json:"warnings,omitempty"`
	Trace    []State         `json:"-"`
}

// Registration extracts tags and a structured profile and persists the record.
type Registration struct {
	deps Deps
}

func NewRegistration(deps Deps) *Registration {
	deps.Logger = loggerOrNop(deps.Logger)
	return &Registration{deps: deps}
}

// Register runs one registration. Name and description are used exactly as
// given; whitespace only matters for the emptiness check. Only input validation
// and store failures are returned as errors; AI failures degrade the record and
// show up as warnings.
func (r *Registration) Register(ctx context.Context, name, description string) (*RegistrationResult, error) {
	runID := newRunID()
	log := logger.WithRun(r.deps.Logger, registrationWorkflow, runID)
	t := &tracker{logger: log}
	t.enter(StateIdle)

	t.enter(StateValidating)
	if err := employee.ValidateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description: %w", employee.ErrMissingInput)
	}
	if r.deps.Tagger == nil || r.deps.Structurer == nil || r.deps.Store == nil {
		return nil, errors.New("registration workflow is not fully configured")
	}

	log = log.With(zap.String(logger.FieldEmployee, name))
	t.logger = log
	result := &RegistrationResult{RunID: runID}

	t.enter(StateExtracting)
	tags, err := r.deps.Tagger.ExtractTags(ctx, description)
	msg, err := warning(err)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		result.Warnings = append(result.Warnings, msg)
	}
	if tags == nil {
		tags = []string{}
	}

	t.enter(StateStructuring)
	structured, err := r.deps.Structurer.Structure(ctx, description)
	msg, err = warning(err)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		result.Warnings = append(result.Warnings, msg)
	}

	t.enter(StatePersisting)
	record := employee.Record{
		Name:                  name,
		Description:           description,
		StructuredDescription: structured,
		Tags:                  tags,
	}
	if err := r.deps.Store.Upsert(ctx, record); err != nil {
		log.Error("failed to persist employee", zap.Error(err))
		return nil, err
	}

	if r.deps.Notifier != nil {
		if err := r.deps.Notifier.EmployeeRegistered(ctx, runID, record); err != nil {
			log.Warn("failed to publish registration event", zap.Error(err))
		}
	}

	t.enter(StateDone)
	log.Info("employee registered",
		zap.Strings("tags", tags),
		zap.Int("warnings", len(result.Warnings)),
	)

	result.Record = record
	result.Trace = t.trace
	return result, nil
}
