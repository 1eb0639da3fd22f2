// Package llm holds the provider clients used by the analysis
// orchestrator. Every client speaks the same narrow contract: one prompt
// plus a JSON input document in, raw JSON out.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Client is a minimal JSON-generating model client.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// OverloadedError marks the one transient failure class: the provider
// reported a capacity problem (HTTP 503/429 or an explicit overload
// status). It is the only condition the orchestrator answers with a
// fallback attempt.
type OverloadedError struct {
	Err error
}

func (e *OverloadedError) Error() string { return "model overloaded: " + e.Err.Error() }
func (e *OverloadedError) Unwrap() error { return e.Err }

// AuthError marks configuration problems (bad or missing API key,
// forbidden project). The only remediation is operator action, so it is
// kept distinct from the generic fatal class.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "model auth: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// PermanentError marks any other failure that will not resolve with a
// second attempt.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsOverloaded reports whether err is the transient-capacity class.
func IsOverloaded(err error) bool {
	var oe *OverloadedError
	return errors.As(err, &oe)
}

// IsAuth reports whether err is a configuration/credentials failure.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// classifyStatus folds an HTTP-ish status code plus the raw error into
// the shared error classes.
func classifyStatus(code int, err error) error {
	switch {
	case code == 429 || code == 503:
		return &OverloadedError{Err: err}
	case code == 401 || code == 403:
		return &AuthError{Err: err}
	default:
		return err
	}
}

// checkJSON verifies the payload is a standalone JSON document.
func checkJSON(raw json.RawMessage) (json.RawMessage, error) {
	var scratch any
	if err := json.Unmarshal(raw, &scratch); err != nil {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}
