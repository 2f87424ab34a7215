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

const searchWorkflow = "search"

// SearchResult holds the ranked matches for a query. An empty Results slice
// means nobody matched.
type SearchResult struct {
	RunID     string                  `json:"run_id"`
	QueryTags []string                `json:"query_tags"`
	Results   []employee.RankedResult `json:"results"`
	Warnings  []string                `json:"warnings,omitempty"`
	Trace     []State                 `json:"-"`
}

// NoMatch reports whether the search found nobody.
func (r *SearchResult) NoMatch() bool {
	return len(r.Results) == 0
}

// Search extracts tags from a query and ranks stored records against them.
type Search struct {
	deps Deps
}

func NewSearch(deps Deps) *Search {
	deps.Logger = loggerOrNop(deps.Logger)
	return &Search{deps: deps}
}

func (s *Search) Search(ctx context.Context, query string) (*SearchResult, error) {
	runID := newRunID()
	log := logger.WithRun(s.deps.Logger, searchWorkflow, runID)
	t := &tracker{logger: log}
	t.enter(StateIdle)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", employee.ErrMissingInput)
	}
	if s.deps.Tagger == nil || s.deps.Store == nil {
		return nil, errors.New("search workflow is not fully configured")
	}

	result := &SearchResult{RunID: runID}

	t.enter(StateExtracting)
	tags, err := s.deps.Tagger.ExtractTags(ctx, query)
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
	result.QueryTags = tags

	t.enter(StateMatching)
	records, err := s.deps.Store.ListAll(ctx)
	if err != nil {
		log.Error("failed to list employees", zap.Error(err))
		return nil, err
	}
	result.Results = employee.Rank(tags, records)

	t.enter(StatePresenting)
	log.Info("search completed",
		zap.Strings("query_tags", tags),
		zap.Int("records", len(records)),
		zap.Int("matches", len(result.Results)),
	)

	result.Trace = t.trace
	return result, nil
}
