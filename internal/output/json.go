package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// JSONLine writes data as a single line of JSON. Watch mode emits one line
// per refresh so consumers can read the stream line by line.
func JSONLine(w io.Writer, data any) error {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for a failed command.
type ErrorResponse struct {
	Error    string         `json:"error"`
	Code     string         `json:"code"`
	ExitCode int            `json:"exit_code"`
	Details  map[string]any `json:"details,omitempty"`
}

// NewErrorResponse builds the envelope for err. Errors without a code are
// reported as INTERNAL_ERROR.
func NewErrorResponse(err error) ErrorResponse {
	cliErr := clierr.Wrap(clierr.InternalError, err)
	return ErrorResponse{
		Error:    cliErr.Message,
		Code:     cliErr.Code,
		ExitCode: cliErr.ExitCode(),
		Details:  cliErr.Details,
	}
}

// JSONError writes the envelope for err and returns the exit code to use.
func JSONError(w io.Writer, err error) int {
	resp := NewErrorResponse(err)
	_ = JSON(w, resp)
	return resp.ExitCode
}
