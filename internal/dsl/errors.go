package dsl

import "fmt"

// Parse stages. StageSyntax covers malformed text in either accepted
// syntax; StageShape covers well-formed text whose top level is not a
// mapping or lacks the required keys.
const (
	StageSyntax = "syntax"
	StageShape  = "shape"
)

// ParseError reports a failure to turn text into a Definition.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse (%s): %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Validation kinds.
const (
	KindDanglingReference = "dangling-reference"
	KindDuplicateID       = "duplicate-id"
)

// ValidationError reports a well-formed definition that is referentially
// broken. Where names the flow or boundary holding the bad reference.
type ValidationError struct {
	Kind      string
	Where     string
	MissingID string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindDanglingReference:
		return fmt.Sprintf("validate: %s references unknown component %q", e.Where, e.MissingID)
	case KindDuplicateID:
		return fmt.Sprintf("validate: duplicate id %q in %s", e.MissingID, e.Where)
	default:
		return fmt.Sprintf("validate: %s (%s)", e.Kind, e.Where)
	}
}
