package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/ai/openrouter"
	"github.com/spigell/skillmatch/internal/server"
	"github.com/spigell/skillmatch/internal/storage/firestore"
)

const (
	backendFirestore = "firestore"
	backendPostgres  = "postgres"
	backendMemory    = "memory"
)

// ConfigError reports a configuration problem that prevents startup.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var envBindings = map[string][]string{
	"ai.gemini.api-key":                {"GEMINI_API_KEY"},
	"ai.gemini.api-key-file":           {"GEMINI_API_KEY_FILE"},
	"ai.openrouter.api-key":            {"OPENROUTER_API_KEY"},
	"ai.openrouter.api-key-file":       {"OPENROUTER_API_KEY_FILE"},
	"store.firestore.credentials-json": {"FIREBASE_KEY_JSON"},
	"store.firestore.credentials-file": {"FIREBASE_KEY_FILE", "GOOGLE_APPLICATION_CREDENTIALS"},
	"store.firestore.project-id":       {"FIRESTORE_PROJECT_ID"},
	"store.postgres.dsn":               {"DATABASE_URL"},
	"events.url":                       {"AMQP_URL"},
}

func bindEnv(v *viper.Viper) error {
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s: %w", strings.Join(envs, ", "), err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", gemini.ProviderName)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 0)
	v.SetDefault("ai.openrouter.base-url", openrouter.DefaultBaseURL)
	v.SetDefault("ai.openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("store.backend", backendFirestore)
	v.SetDefault("store.collection", firestore.DefaultCollection)
	v.SetDefault("server.listen", server.DefaultListen)
	v.SetDefault("server.rate-limit", 30)
	v.SetDefault("server.rate-window", time.Minute)
	v.SetDefault("events.exchange", "skillmatch")
}

// decodeConfig unmarshals v and checks the values that do not need secrets resolved.
func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &ConfigError{Key: "config", Err: err}
	}
	if config == nil {
		config = &Config{}
	}
	config.fillNil()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) fillNil() {
	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}
	if c.AI.OpenRouter == nil {
		c.AI.OpenRouter = &OpenRouterConfig{}
	}
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Firestore == nil {
		c.Store.Firestore = &FirestoreConfig{}
	}
	if c.Store.Postgres == nil {
		c.Store.Postgres = &PostgresConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Events == nil {
		c.Events = &EventsConfig{}
	}
}

func (c *Config) Validate() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.AI.Provider {
	case "", gemini.ProviderName:
		c.AI.Provider = gemini.ProviderName
	case openrouter.ProviderName:
	default:
		return &ConfigError{Key: "ai.provider", Err: fmt.Errorf("unsupported provider %q", c.AI.Provider)}
	}

	if c.AI.Gemini.MaxRetries < 0 {
		return &ConfigError{Key: "ai.gemini.max-retries", Err: fmt.Errorf("must not be negative, got %d", c.AI.Gemini.MaxRetries)}
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "", backendFirestore:
		c.Store.Backend = backendFirestore
	case backendPostgres:
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			return &ConfigError{Key: "store.postgres.dsn", Err: fmt.Errorf("required for the postgres backend (or set DATABASE_URL)")}
		}
	case backendMemory:
	default:
		return &ConfigError{Key: "store.backend", Err: fmt.Errorf("unsupported backend %q", c.Store.Backend)}
	}

	if c.Server.RateLimit < 0 {
		return &ConfigError{Key: "server.rate-limit", Err: fmt.Errorf("must not be negative, got %d", c.Server.RateLimit)}
	}

	return nil
}
