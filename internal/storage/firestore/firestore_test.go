package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
)

func TestFieldsUseServerTimestamp(t *testing.T) {
	got := fields(employee.Record{
		Name:        "Taro",
		Description: "desc",
		UpdatedAt:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	if got["updated_at"] != firestore.ServerTimestamp {
		t.Fatalf("updated_at must be the server timestamp sentinel, got %v", got["updated_at"])
	}
	if tags, ok := got["tags"].([]string); !ok || tags == nil {
		t.Fatalf("nil tags must be written as an empty array, got %#v", got["tags"])
	}
	if got["name"] != "Taro" || got["description"] != "desc" {
		t.Fatalf("unexpected fields: %v", got)
	}
}

func TestToRecord(t *testing.T) {
	now := time.Now().UTC()
	rec := toRecord(document{Name: "Taro", Description: "d", StructuredDescription: "s", UpdatedAt: now})

	want := employee.Record{Name: "Taro", Description: "d", StructuredDescription: "s", Tags: []string{}, UpdatedAt: now}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("expected %+v, got %+v", want, rec)
	}
}

func TestNewRequiresProject(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error for missing project id")
	}
}

func TestUpsertRejectsInvalidDocumentID(t *testing.T) {
	store := NewWithClient(nil, "", nil)

	for _, name := range []string{"team/alice", "..", "__alice__", " "} {
		t.Run(name, func(t *testing.T) {
			err := store.Upsert(context.Background(), employee.Record{Name: name, Description: "d"})

			var storeErr *employee.StoreError
			if !errors.As(err, &storeErr) || storeErr.Op != "upsert" {
				t.Fatalf("expected upsert StoreError, got %v", err)
			}
			if !errors.Is(err, employee.ErrInvalidName) && !errors.Is(err, employee.ErrMissingInput) {
				t.Fatalf("expected a name validation error, got %v", err)
			}
		})
	}
}

func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	ctx := context.Background()
	store, err := New(ctx, Config{
		ProjectID:  "skillmatch-test",
		Collection: fmt.Sprintf("employees_%d", time.Now().UnixNano()),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEmulatorRoundTrip(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	rec := employee.Record{
		Name:                  "Taro",
		Description:           "Python and AWS",
		StructuredDescription: "- Skills:\n  - Python",
		Tags:                  []string{"Python", "AWS", "Sales"},
	}
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one record, got %d", len(got))
	}
	if got[0].UpdatedAt.IsZero() {
		t.Fatal("updated_at must be set by the server")
	}
	got[0].UpdatedAt = time.Time{}
	if !reflect.DeepEqual(got[0], rec) {
		t.Fatalf("expected %+v, got %+v", rec, got[0])
	}

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestEmulatorOverwrite(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, employee.Record{Name: "Alice", Description: "first", Tags: []string{"Go"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, employee.Record{Name: "Alice", Description: "second"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Description != "second" || len(got[0].Tags) != 0 {
		t.Fatalf("expected a single overwritten record, got %+v", got)
	}
}
