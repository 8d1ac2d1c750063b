package apperr

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestKindsUnwrap(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{Validation("amount", "must be > %d", 0), ErrValidation},
		{NotFound("loan type %q", "x"), ErrNotFound},
		{Forbidden("nope"), ErrForbidden},
		{Unauthenticated("no token"), ErrUnauthenticated},
		{Conflict("already signed"), ErrConflict},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.kind) {
			t.Fatalf("%v should be %v", tt.err, tt.kind)
		}
		wrapped := fmt.Errorf("usecase: %w", tt.err)
		if !errors.Is(wrapped, tt.kind) {
			t.Fatalf("wrapped %v should still be %v", wrapped, tt.kind)
		}
	}
}

func TestFieldAndMessage(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Validation("siret", "must be exactly 14 digits"))
	if got := FieldOf(err); got != "siret" {
		t.Fatalf("FieldOf = %q", got)
	}
	if got := MessageOf(err); got != "must be exactly 14 digits" {
		t.Fatalf("MessageOf = %q", got)
	}
	if FieldOf(errors.New("plain")) != "" {
		t.Fatal("plain errors have no field")
	}
	if MessageOf(errors.New("plain")) != "plain" {
		t.Fatal("plain message should pass through")
	}
}

func TestFromLookup(t *testing.T) {
	if err := FromLookup(gorm.ErrRecordNotFound, "contract %s", "C1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	boom := errors.New("db down")
	if err := FromLookup(boom, "contract"); err != boom {
		t.Fatalf("want passthrough, got %v", err)
	}
	if err := FromLookup(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound), "x"); MessageOf(err) != "x" {
		t.Fatalf("message = %q", MessageOf(err))
	}
}
