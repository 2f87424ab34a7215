package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const serviceAccountType = "service_account"

// ServiceAccount is the subset of a Google service account key the store needs.
// Raw keeps the original payload so it can be handed to the client library untouched.
type ServiceAccount struct {
	Type         string `mapstructure:"type"`
	ProjectID    string `mapstructure:"project_id"`
	PrivateKeyID string `mapstructure:"private_key_id"`
	PrivateKey   string `mapstructure:"private_key"`
	ClientEmail  string `mapstructure:"client_email"`
	ClientID     string `mapstructure:"client_id"`
	TokenURI     string `mapstructure:"token_uri"`

	Raw []byte `mapstructure:"-"`
}

// ParseServiceAccount decodes a JSON credential bundle and checks that the
// fields required to open a store connection are present.
func ParseServiceAccount(payload string) (*ServiceAccount, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("credential bundle is empty")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("credential bundle is not valid JSON: %w", err)
	}

	var account ServiceAccount
	if err := mapstructure.Decode(fields, &account); err != nil {
		return nil, fmt.Errorf("decode credential bundle: %w", err)
	}

	var missing []string
	if strings.TrimSpace(account.ProjectID) == "" {
		missing = append(missing, "project_id")
	}
	if strings.TrimSpace(account.ClientEmail) == "" {
		missing = append(missing, "client_email")
	}
	if strings.TrimSpace(account.PrivateKey) == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("credential bundle is missing %s", strings.Join(missing, ", "))
	}

	if account.Type != "" && account.Type != serviceAccountType {
		return nil, fmt.Errorf("credential bundle type %q is not supported, expected %q", account.Type, serviceAccountType)
	}

	account.Raw = []byte(payload)
	return &account, nil
}

// LoadServiceAccount resolves the bundle through Load and parses it. Parse
// errors name the source the bundle came from.
func LoadServiceAccount(src Source) (*ServiceAccount, error) {
	payload, err := Load(src)
	if err != nil {
		return nil, err
	}

	account, err := ParseServiceAccount(payload)
	if err != nil {
		return nil, fmt.Errorf("%s from %s: %w", src.name(), src.origin(), err)
	}

	return account, nil
}
