package profiling

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/utils"
)

// Structurer rewrites a self-description into the three-section profile.
type Structurer struct {
	base
}

func NewStructurer(generator ai.Generator, provider string, logger *zap.Logger, maxLogLength int) *Structurer {
	return &Structurer{base: newBase(generator, provider, logger, maxLogLength)}
}

// Structure returns the model output unmodified. On failure it returns
// FallbackMarker and an *ai.ServiceError.
func (s *Structurer) Structure(ctx context.Context, text string) (string, error) {
	if s.generator == nil {
		return FallbackMarker, s.serviceError("structure profile", errors.New("generator is not configured"))
	}

	prompt := buildPrompt(profileTemplate, "Structure this introduction:\n{{TEXT}}", text)
	s.logger.Debug("profile structuring request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	out, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("profile structuring failed, storing fallback marker", zap.Error(err))
		return FallbackMarker, s.serviceError("structure profile", err)
	}

	s.logger.Debug("profile structuring response",
		zap.Int("response_length", utf8.RuneCountInString(out)),
		zap.String("response_preview", utils.TruncateForLog(out, s.maxLogLen)),
	)

	return out, nil
}
