package tui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
)

// Output provides methods for structured output to a terminal.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, if any.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Print writes pre-rendered text such as a panel or tree.
	Print(block string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
}

// TTYOutput provides styled output for terminal displays.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput. Respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render(msg))
}

// Error prints the user-facing message followed by a dim hint line.
func (o *TTYOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("Error: ")+msg)
	if detail := err.Error(); detail != msg {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+detail))
	}
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render(msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Print writes block followed by a newline.
func (o *TTYOutput) Print(block string) {
	_, _ = fmt.Fprintln(o.w, block)
}

// JSON outputs a value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return writeJSON(o.w, v)
}

// JSONOutput emits only JSON documents; human-oriented messages are dropped.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

// Success is a no-op for JSON output.
func (o *JSONOutput) Success(string) {}

// Error outputs the error as a JSON object.
func (o *JSONOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	_ = writeJSON(o.w, struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Action  string `json:"action,omitempty"`
	}{Error: err.Error(), Message: msg, Action: action})
}

// Warning is a no-op for JSON output.
func (o *JSONOutput) Warning(string) {}

// Info is a no-op for JSON output.
func (o *JSONOutput) Info(string) {}

// Print is a no-op for JSON output.
func (o *JSONOutput) Print(string) {}

// JSON outputs a value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return writeJSON(o.w, v)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == constants.OutputJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
