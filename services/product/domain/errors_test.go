package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrProductNotFound, "product not found"},
		{ErrProductAlreadyExists, "duplicate entry detected"},
		{ErrProductCreateFailed, "failed to create product"},
		{ErrInvalidProduct, "invalid product"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("unexpected message: got %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if errors.Is(ErrProductAlreadyExists, ErrProductCreateFailed) || errors.Is(ErrProductCreateFailed, ErrProductAlreadyExists) {
		t.Fatal("duplicate and create-failed must stay distinguishable")
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get product: %w", ErrProductNotFound)
	if !errors.Is(wrapped, ErrProductNotFound) {
		t.Fatal("errors.Is must match wrapped ErrProductNotFound")
	}

	cause := errors.New("connection reset")
	wrapped2 := fmt.Errorf("%w: %w", ErrProductCreateFailed, cause)
	if !errors.Is(wrapped2, ErrProductCreateFailed) {
		t.Fatal("errors.Is must match double-wrapped ErrProductCreateFailed")
	}
	if !errors.Is(wrapped2, cause) {
		t.Fatal("errors.Is must still reach the store cause")
	}
}
