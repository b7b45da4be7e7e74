package model

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a document that lacks a structurally required field.
var ErrMissingField = errors.New("missing required field")

// ParseError reports why a document could not be turned into a Document Model.
type ParseError struct {
	Format Format
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("parsing %s document: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("parsing %s document: %s: %v", e.Format, e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func missingField(format Format, field string) *ParseError {
	return &ParseError{
		Format: format,
		Reason: fmt.Sprintf("missing required field %q", field),
		Err:    ErrMissingField,
	}
}
