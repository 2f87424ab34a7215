package ai

import (
	"errors"
	"testing"
)

func TestServiceError(t *testing.T) {
	cause := errors.New("429 resource exhausted")

	err := &ServiceError{Op: "extract tags", Provider: "gemini", Err: cause}
	if err.Error() != "ai extract tags (gemini): 429 resource exhausted" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("ServiceError must unwrap to its cause")
	}

	bare := &ServiceError{Op: "structure profile", Err: cause}
	if bare.Error() != "ai structure profile: 429 resource exhausted" {
		t.Fatalf("unexpected message: %q", bare.Error())
	}
}
