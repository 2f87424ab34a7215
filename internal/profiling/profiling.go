// Package profiling turns free-text self-descriptions into keyword tags and
// structured profiles with the help of an AI generator.
package profiling

import (
	_ "embed"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
)

// FallbackMarker is stored as the structured description when the AI call fails.
const FallbackMarker = "--- structuring failed ---"

const (
	defaultMaxLogLength = 200
	textPlaceholder     = "{{TEXT}}"
)

//go:embed tags.md
var tagsTemplate string

//go:embed profile.md
var profileTemplate string

type base struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
	provider  string
}

func newBase(generator ai.Generator, provider string, logger *zap.Logger, maxLogLength int) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return base{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		provider:  provider,
	}
}

func (b base) serviceError(op string, err error) *ai.ServiceError {
	return &ai.ServiceError{Op: op, Provider: b.provider, Err: err}
}

func buildPrompt(template, fallback, text string) string {
	if strings.TrimSpace(template) == "" {
		template = fallback
	}
	return strings.ReplaceAll(template, textPlaceholder, text)
}
