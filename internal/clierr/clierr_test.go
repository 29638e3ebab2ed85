package clierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := New(InternalError, "boom").ExitCode(); got != 2 {
		t.Errorf("internal ExitCode() = %d, want 2", got)
	}
	if got := New(TaskNotFound, "missing").ExitCode(); got != 1 {
		t.Errorf("not-found ExitCode() = %d, want 1", got)
	}
}

func TestErrorSurvivesWrapping(t *testing.T) {
	base := Newf(InvalidSort, "invalid sort key %q", "size").
		WithDetails(map[string]any{"input": "size"})
	wrapped := fmt.Errorf("list: %w", base)

	var cliErr *Error
	if !errors.As(wrapped, &cliErr) {
		t.Fatal("errors.As did not find *Error in wrapped chain")
	}
	if cliErr.Code != InvalidSort {
		t.Errorf("Code = %q, want %q", cliErr.Code, InvalidSort)
	}
	if cliErr.Message != `invalid sort key "size"` {
		t.Errorf("Message = %q", cliErr.Message)
	}
	if cliErr.Details["input"] != "size" {
		t.Errorf("Details = %v", cliErr.Details)
	}
}

func TestSilentErrorMessage(t *testing.T) {
	err := &SilentError{Code: 3}
	if err.Error() != "exit 3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit 3")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("config: me must not contain newlines")
	err := fmt.Errorf("set: %w", Wrap(InvalidInput, cause))

	if got := CodeOf(err); got != InvalidInput {
		t.Errorf("CodeOf() = %q, want %q", got, InvalidInput)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause is not reachable through errors.Is")
	}

	coded := New(InvalidSort, "bad sort")
	if Wrap(InvalidInput, fmt.Errorf("list: %w", coded)) != coded {
		t.Error("Wrap replaced an existing code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("CodeOf(plain) should be empty")
	}
}
