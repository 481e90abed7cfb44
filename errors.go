package openapireq

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a JSON Pointer or $ref did not resolve to a node
// in the spec document. Check with errors.Is; the concrete error is a
// [*NotFoundError].
var ErrNotFound = errors.New("not found in document")

// RequestValidationError reports a request that violates the spec: wrong
// content type, a path parameter failing its referenced schema, an
// unresolvable operation, or aggregated body violations from
// [Validator.BeforeHandle].
type RequestValidationError struct {
	Message string
}

func (e *RequestValidationError) Error() string {
	return e.Message
}

// BodyParseError reports a request body that could not be parsed as JSON,
// including an empty body on methods that require one.
type BodyParseError struct {
	Cause error
}

func (e *BodyParseError) Error() string {
	return fmt.Sprintf("request body is not valid JSON: %v", e.Cause)
}

func (e *BodyParseError) Unwrap() error {
	return e.Cause
}

// ParseError reports a spec document that could not be parsed as YAML or
// JSON.
type ParseError struct {
	Location string
	Cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Location, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NotFoundError reports a pointer that does not exist in the document.
// It matches [ErrNotFound] via errors.Is.
type NotFoundError struct {
	Pointer string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q %v", e.Pointer, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
