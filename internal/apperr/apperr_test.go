package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesOnKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"conflict matches conflict", Conflictf("collect race lost"), ErrConflict, true},
		{"conflict does not match invalid state", Conflictf("collect race lost"), ErrInvalidState, false},
		{"not found matches not found", NotFoundf("report %s", "trash_abc"), ErrNotFound, true},
		{"validation matches validation", Validationf("location is required"), ErrValidation, true},
		{"authorization matches authorization", Authorizationf("admin access required"), ErrAuthorization, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("approve collection: %w", InvalidStatef("report is not pending review"))
	if !errors.Is(err, ErrInvalidState) {
		t.Error("wrapped engine error should still match its kind")
	}
	if errors.Is(err, ErrConflict) {
		t.Error("wrapped engine error should not match a different kind")
	}
}

func TestKindOf(t *testing.T) {
	if k, ok := KindOf(Validationf("bad input")); !ok || k != Validation {
		t.Errorf("KindOf(validation) = (%v, %v), want (Validation, true)", k, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report false")
	}
}

func TestErrorString(t *testing.T) {
	err := NotFoundf("report %s not found", "trash_123")
	want := "NOT_FOUND: report trash_123 not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
