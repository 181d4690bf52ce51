package exit

import (
	"fmt"
	"io"
	"os"
)

// Process exit codes. Each failure stage gets its own code so scripts can
// distinguish a bad query from bad input.
const (
	CodeOK     = 0
	CodeUsage  = 1
	CodeQuery  = 2
	CodeDecode = 3
	CodeEval   = 4
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr with the given code.
func Error(code int, message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: code,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(code int, format string, a ...any) *Result {
	return Error(code, fmt.Sprintf(format, a...))
}
