package profiling

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/utils"
)

// Tagger extracts keyword tags from free text.
type Tagger struct {
	base
}

func NewTagger(generator ai.Generator, provider string, logger *zap.Logger, maxLogLength int) *Tagger {
	return &Tagger{base: newBase(generator, provider, logger, maxLogLength)}
}

// ExtractTags asks the generator for keywords and returns them in the order produced.
// On AI failure it returns an empty slice together with an *ai.ServiceError;
// callers are expected to continue with the empty result.
func (t *Tagger) ExtractTags(ctx context.Context, text string) ([]string, error) {
	if t.generator == nil {
		return []string{}, t.serviceError("extract tags", errors.New("generator is not configured"))
	}

	prompt := buildPrompt(tagsTemplate, "Keywords for:\n{{TEXT}}", text)
	t.logger.Debug("tag extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, t.maxLogLen)),
	)

	raw, err := t.generator.GenerateContent(ctx, prompt)
	if err != nil {
		t.logger.Warn("tag extraction failed, continuing without tags", zap.Error(err))
		return []string{}, t.serviceError("extract tags", err)
	}

	t.logger.Debug("tag extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, t.maxLogLen)),
	)

	return ParseTags(raw), nil
}

// ParseTags converts a model reply into tags. A JSON array of strings is taken
// as-is; anything else is split on commas with each piece trimmed.
func ParseTags(raw string) []string {
	cleaned := unwrapFence(raw)

	if gjson.Valid(cleaned) {
		parsed := gjson.Parse(cleaned)
		if parsed.IsArray() {
			items := parsed.Array()
			tags := make([]string, 0, len(items))
			for _, item := range items {
				tags = append(tags, strings.TrimSpace(item.String()))
			}
			return tags
		}
	}

	return utils.SplitTrim(cleaned, ",")
}

func unwrapFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}

	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.IndexByte(raw, '\n'); idx != -1 && !strings.Contains(raw[:idx], ",") {
		// drop the language hint, e.g. ```json
		raw = raw[idx+1:]
	}
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
