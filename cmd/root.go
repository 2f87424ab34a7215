package cmd

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "skillmatch"
)

type Config struct {
	AI     *AIConfig     `mapstructure:"ai"`
	Store  *StoreConfig  `mapstructure:"store"`
	Server *ServerConfig `mapstructure:"server"`
	Events *EventsConfig `mapstructure:"events"`
}

type AIConfig struct {
	Provider     string            `mapstructure:"provider"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig     `mapstructure:"gemini"`
	OpenRouter   *OpenRouterConfig `mapstructure:"openrouter"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OpenRouterConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
	Model      string `mapstructure:"model"`
}

type StoreConfig struct {
	Backend    string           `mapstructure:"backend"`
	Collection string           `mapstructure:"collection"`
	Firestore  *FirestoreConfig `mapstructure:"firestore"`
	Postgres   *PostgresConfig  `mapstructure:"postgres"`
}

type FirestoreConfig struct {
	CredentialsJSON string `mapstructure:"credentials-json"`
	CredentialsFile string `mapstructure:"credentials-file"`
	ProjectID       string `mapstructure:"project-id"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Listen     string        `mapstructure:"listen"`
	RateLimit  int           `mapstructure:"rate-limit"`
	RateWindow time.Duration `mapstructure:"rate-window"`
}

type EventsConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch registers employee self-introductions and finds people by skill keywords",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is a convenience for local runs; real environments set variables directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads the explicit config file, or skillmatch.yaml from the
// current directory when it exists.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}
