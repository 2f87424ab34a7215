package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/ai/openrouter"
	"github.com/spigell/skillmatch/internal/employee"
	"github.com/spigell/skillmatch/internal/events"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/profiling"
	"github.com/spigell/skillmatch/internal/secrets"
	"github.com/spigell/skillmatch/internal/storage/firestore"
	"github.com/spigell/skillmatch/internal/storage/memory"
	"github.com/spigell/skillmatch/internal/storage/postgres"
	"github.com/spigell/skillmatch/internal/workflow"
)

// application holds the process-wide clients shared by every command.
type application struct {
	config       *Config
	logger       *zap.Logger
	store        employee.Store
	registration *workflow.Registration
	search       *workflow.Search
	closers      []func() error
}

// bootstrap builds the logger, configuration and clients. Any failure here is
// fatal: nothing is rendered until every collaborator is ready.
func bootstrap(ctx context.Context) (*application, error) {
	log, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return nil, err
	}

	a, err := newApplication(ctx, config, log)
	if err != nil {
		log.Error("initialization failed", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func newApplication(ctx context.Context, config *Config, log *zap.Logger) (*application, error) {
	a := &application{config: config, logger: log}

	generator, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		return nil, err
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	provider := config.AI.Provider
	aiLogger := logger.WithCommonFields(log, provider, generator.Model())
	deps := workflow.Deps{
		Tagger:     profiling.NewTagger(generator, provider, aiLogger, config.AI.MaxLogLength),
		Structurer: profiling.NewStructurer(generator, provider, aiLogger, config.AI.MaxLogLength),
		Store:      store,
		Logger:     log.With(zap.String(logger.FieldStore, config.Store.Backend)),
	}

	if publisher := newPublisher(config.Events, log); publisher != nil {
		deps.Notifier = publisher
		a.closers = append(a.closers, publisher.Close)
	}

	a.registration = workflow.NewRegistration(deps)
	a.search = workflow.NewSearch(deps)

	log.Debug("application initialized",
		zap.String(logger.FieldProvider, provider),
		zap.String(logger.FieldModel, generator.Model()),
		zap.String(logger.FieldStore, config.Store.Backend),
	)
	return a, nil
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("closing client", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	switch cfg.Provider {
	case openrouter.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:    "openrouter api key",
			Value:   cfg.OpenRouter.APIKey,
			File:    cfg.OpenRouter.APIKeyFile,
			Env:     "OPENROUTER_API_KEY",
			FileKey: "ai.openrouter.api-key-file",
		})
		if err != nil {
			return nil, &ConfigError{Key: "ai.openrouter.api-key", Err: err}
		}
		generator, err := openrouter.NewGenerator(apiKey, openrouter.Options{
			BaseURL: cfg.OpenRouter.BaseURL,
			Model:   cfg.OpenRouter.Model,
			Logger:  log,
		})
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		apiKey, err := secrets.Load(secrets.Source{
			Name:    "gemini api key",
			Value:   cfg.Gemini.APIKey,
			File:    cfg.Gemini.APIKeyFile,
			Env:     "GEMINI_API_KEY",
			FileKey: "ai.gemini.api-key-file",
		})
		if err != nil {
			return nil, &ConfigError{Key: "ai.gemini.api-key", Err: err}
		}
		generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
			Model:      cfg.Gemini.Model,
			MaxRetries: cfg.Gemini.MaxRetries,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		return generator, nil
	}
}

func newStore(ctx context.Context, cfg *StoreConfig, log *zap.Logger) (employee.Store, func() error, error) {
	storeLogger := log.With(zap.String(logger.FieldStore, cfg.Backend))

	switch cfg.Backend {
	case backendMemory:
		storeLogger.Warn("using the in-memory store, records are lost on exit")
		return memory.New(), nil, nil
	case backendPostgres:
		store, err := postgres.New(ctx, cfg.Postgres.DSN, storeLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		fsCfg, err := firestoreConfig(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := firestore.New(ctx, fsCfg, storeLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("open firestore store: %w", err)
		}
		return store, store.Close, nil
	}
}

// firestoreConfig resolves the credential bundle. Against the emulator the
// bundle is optional but a project id is still required.
func firestoreConfig(cfg *StoreConfig) (firestore.Config, error) {
	out := firestore.Config{
		ProjectID:  strings.TrimSpace(cfg.Firestore.ProjectID),
		Collection: cfg.Collection,
	}

	src := secrets.Source{
		Name:    "store credential bundle",
		Value:   cfg.Firestore.CredentialsJSON,
		File:    cfg.Firestore.CredentialsFile,
		Env:     "FIREBASE_KEY_JSON",
		FileKey: "store.firestore.credentials-file",
	}
	emulator := os.Getenv("FIRESTORE_EMULATOR_HOST") != ""
	if emulator && strings.TrimSpace(src.Value) == "" && strings.TrimSpace(src.File) == "" {
		if out.ProjectID == "" {
			return out, &ConfigError{Key: "store.firestore.project-id", Err: errors.New("required when using the emulator without credentials")}
		}
		return out, nil
	}

	account, err := secrets.LoadServiceAccount(src)
	if err != nil {
		return out, &ConfigError{Key: "store.firestore.credentials-json", Err: err}
	}

	out.CredentialsJSON = account.Raw
	if out.ProjectID == "" {
		out.ProjectID = account.ProjectID
	}
	return out, nil
}

// newPublisher connects to the broker when configured. The event is optional,
// so a failed connection only disables it.
func newPublisher(cfg *EventsConfig, log *zap.Logger) *events.Publisher {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil
	}

	publisher, err := events.Dial(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Warn("registration events disabled", zap.Error(err))
		return nil
	}
	return publisher
}
