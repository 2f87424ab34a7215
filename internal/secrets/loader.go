package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source provides a value.
var ErrNotConfigured = errors.New("not configured")

// Source describes where a credential can come from.
type Source struct {
	// Name is used in error messages, e.g. "gemini api key".
	Name string
	// Value is the inline value from configuration or the environment.
	Value string
	// File points to a file holding the value. It wins over Value.
	File string
	// Env is the environment variable that feeds Value, e.g. FIREBASE_KEY_JSON.
	Env string
	// FileKey is the configuration key that feeds File.
	FileKey string
}

func (s Source) name() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// origin names where the value was read from, for error messages.
func (s Source) origin() string {
	if file := strings.TrimSpace(s.File); file != "" {
		return fmt.Sprintf("file %q", file)
	}
	if s.Env != "" {
		return s.Env
	}
	return "inline value"
}

// hint lists the places a missing value can be supplied.
func (s Source) hint() string {
	var places []string
	if s.Env != "" {
		places = append(places, s.Env)
	}
	if s.FileKey != "" {
		places = append(places, s.FileKey)
	}
	if len(places) == 0 {
		return ""
	}
	return " (set " + strings.Join(places, " or ") + ")"
}

// Load resolves the credential. The file wins over the inline value and the
// result is trimmed.
func Load(src Source) (string, error) {
	name := src.name()

	value := src.Value
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is %w%s", name, ErrNotConfigured, src.hint())
	}

	return secret, nil
}
