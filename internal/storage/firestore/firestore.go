// Package firestore stores employee records as documents keyed by name.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/spigell/skillmatch/internal/employee"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "employees"

// Config selects the project and collection and carries the service account JSON.
// CredentialsJSON may be empty when talking to the emulator.
type Config struct {
	ProjectID       string
	Collection      string
	CredentialsJSON []byte
}

// Store is an employee.Store backed by a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
	logger     *zap.Logger
}

type document struct {
	Name                  string    `firestore:"name"`
	Description           string    `firestore:"description"`
	StructuredDescription string    `firestore:"structured_description"`
	Tags                  []string  `firestore:"tags"`
	UpdatedAt             time.Time `firestore:"updated_at"`
}

// New opens a Firestore client for cfg.ProjectID.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	var opts []option.ClientOption
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return NewWithClient(client, cfg.Collection, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *firestore.Client, collection string, logger *zap.Logger) *Store {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = DefaultCollection
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		client:     client,
		collection: collection,
		logger:     logger.With(zap.String("collection", collection)),
	}
}

// Upsert replaces the document named after the employee. updated_at is set by the server.
// Names that are not valid document IDs are rejected before any request is made.
func (s *Store) Upsert(ctx context.Context, record employee.Record) error {
	if err := employee.ValidateName(record.Name); err != nil {
		return &employee.StoreError{Op: "upsert", Name: record.Name, Err: err}
	}

	ref := s.client.Collection(s.collection).Doc(record.Name)
	if ref == nil {
		return &employee.StoreError{Op: "upsert", Name: record.Name, Err: employee.ErrInvalidName}
	}
	if _, err := ref.Set(ctx, fields(record)); err != nil {
		return &employee.StoreError{Op: "upsert", Name: record.Name, Err: err}
	}

	s.logger.Debug("employee document written", zap.String("employee", record.Name))
	return nil
}

// ListAll reads the whole collection.
func (s *Store) ListAll(ctx context.Context) ([]employee.Record, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	records := make([]employee.Record, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &employee.StoreError{Op: "list", Err: err}
		}

		var doc document
		if err := snap.DataTo(&doc); err != nil {
			return nil, &employee.StoreError{Op: "list", Name: snap.Ref.ID, Err: fmt.Errorf("decode document: %w", err)}
		}
		if doc.Name == "" {
			doc.Name = snap.Ref.ID
		}
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = snap.UpdateTime
		}
		records = append(records, toRecord(doc))
	}

	s.logger.Debug("employee documents listed", zap.Int("count", len(records)))
	return records, nil
}

// Ping reads at most one document to confirm the collection is reachable.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(s.collection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return &employee.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func fields(record employee.Record) map[string]any {
	tags := record.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"name":                   record.Name,
		"description":            record.Description,
		"structured_description": record.StructuredDescription,
		"tags":                   tags,
		"updated_at":             firestore.ServerTimestamp,
	}
}

func toRecord(doc document) employee.Record {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return employee.Record{
		Name:                  doc.Name,
		Description:           doc.Description,
		StructuredDescription: doc.StructuredDescription,
		Tags:                  tags,
		UpdatedAt:             doc.UpdatedAt,
	}
}
