package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	sentinel := New(ErrNotFound, "gym not found")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NotFound("user %d not found", 7), http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", sentinel), http.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), http.StatusForbidden},
		{"validation", Invalid("bad %s", "input"), http.StatusBadRequest},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	a := New(ErrUnauthorized, "not matched")
	b := New(ErrUnauthorized, "not matched")

	wrapped := fmt.Errorf("send: %w", a)
	if !errors.Is(wrapped, a) {
		t.Error("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, b) {
		t.Error("distinct sentinels of the same kind must not match each other")
	}
	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("wrapped error should match its kind")
	}
	if wrapped.Error() != "send: not matched" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestIsDomain(t *testing.T) {
	if !IsDomain(Invalid("x")) {
		t.Error("validation error should be a domain error")
	}
	if IsDomain(errors.New("boom")) {
		t.Error("plain error should not be a domain error")
	}
}
