package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	// ProviderName is the value used for the ai.provider setting and log fields.
	ProviderName = "gemini"
	defaultModel = "gemini-2.5-flash"
	retryDelay   = 2 * time.Second
)

var wait = utils.WaitFor

// contentModels is the slice of the genai client the generator talks to.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models     contentModels
	model      string
	maxRetries int
	logger     *zap.Logger
}

// Options tune a Generator. Zero values fall back to defaults.
type Options struct {
	Model      string
	MaxRetries int
	Logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts), nil
}

func newGenerator(models contentModels, opts Options) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Generator{
		models:     models,
		model:      model,
		maxRetries: retries,
		logger:     logger.WithCommonFields(opts.Logger, ProviderName, model),
	}
}

// GenerateContent sends the prompt to Gemini and returns the reply text unmodified.
// Only temporary API failures are retried, and only when MaxRetries is positive.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryDelay
			g.logger.Debug("retrying gemini request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := wait(ctx, delay); err != nil {
				return "", fmt.Errorf("generate content: %w", err)
			}
		}

		output, err := g.generate(ctx, prompt)
		if err == nil {
			return output, nil
		}

		lastErr = err
		if !isTemporary(err) {
			break
		}
	}

	return "", lastErr
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := responseText(resp)
	if strings.TrimSpace(output) == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// responseText is the first candidate's text exactly as the model produced it.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	return resp.Text()
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Code >= http.StatusInternalServerError
	}

	return false
}
