package gateway

import (
	"context"
	"fmt"
)

// Result is one model turn: text, and at most one surfaced tool call.
// Text may be empty (safety-filtered or blank turn); callers substitute
// their own fallback copy, an empty Result is not an error.
type Result struct {
	Text string
	Call *ToolCall
}

// ToolCall is a structured invocation the model elected to make.
// Args are already coerced to the declared parameter types.
type ToolCall struct {
	Name string
	Args map[string]any
}

// IntArg returns the named argument as an int, coercing from the loose
// types the API may hand back (float64, string digits).
func (tc *ToolCall) IntArg(name string) (int, bool) {
	if tc == nil {
		return 0, false
	}
	return coerceInt(tc.Args[name])
}

// Tool declares a callable function the model may invoke.
type Tool struct {
	Name        string
	Description string
	Params      []Param
}

// Param declares one tool parameter. Type is "integer" or "string".
type Param struct {
	Name        string
	Description string
	Type        string
	Required    bool
}

// Completer is the single capability the engines consume: given a system
// instruction, a prompt and an optional tool catalog, produce one Result.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, tools []Tool) (Result, error)
}

// GatewayError wraps any transport or model failure so callers never see
// raw SDK errors.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }
