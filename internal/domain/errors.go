package domain

import "fmt"

// ParseError reports an input field that could not be parsed into its
// typed form.
type ParseError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parse %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExternalCallError wraps a failed call to one of the external capabilities
// (text generation or web search).
type ExternalCallError struct {
	Capability string // "generate" or "search"
	Err        error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("external %s call: %v", e.Capability, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// MalformedResponseError reports model output that does not match the
// structural contract the prompt asked for.
type MalformedResponseError struct {
	Stage    string
	Response string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Stage, e.Reason)
}
