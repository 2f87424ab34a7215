package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/logger"
)

const (
	// ProviderName is the value used for the ai.provider setting and log fields.
	ProviderName   = "openrouter"
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

// Options configure a Generator. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Generator talks to the OpenRouter chat completions endpoint.
type Generator struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// NewGenerator creates a Generator authenticated with apiKey.
func NewGenerator(apiKey string, opts Options) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &Generator{
		client: client,
		model:  model,
		logger: logger.WithCommonFields(opts.Logger, ProviderName, model),
	}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// first choice's content unmodified.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openrouter generator is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    g.model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(body)
		}
		return "", fmt.Errorf("chat completion failed with status %d: %s", resp.StatusCode(), msg)
	}

	g.logger.Debug("openrouter response received", zap.Int("status", resp.StatusCode()))

	text := gjson.Get(body, "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("openrouter api returned empty response")
	}

	return text, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
