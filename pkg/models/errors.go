package models

import (
	"fmt"
	"strings"
)

// UnregisteredRequestError is returned when no rule matched a graphql or
// rest request after all fallback passes. It is never masked with an empty
// success body; tests assert against it directly.
type UnregisteredRequestError struct {
	Category  Category
	Signature string
}

func (e *UnregisteredRequestError) Error() string {
	return fmt.Sprintf("no registered mock for %s request %q", e.Category, e.Signature)
}

// FixtureNotFoundError reports a fixture reference that resolved against
// neither the fixture root nor the literal path.
type FixtureNotFoundError struct {
	Ref      string
	Searched []string
}

func (e *FixtureNotFoundError) Error() string {
	return fmt.Sprintf("fixture %q not found (searched %s)", e.Ref, strings.Join(e.Searched, ", "))
}

// MalformedResponseError reports a resolved body that failed JSON validation.
type MalformedResponseError struct {
	Source string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: body is not valid JSON", e.Source)
}

// LiveProbeError wraps a failure of the external probe adapter.
type LiveProbeError struct {
	Fixture string
	Err     error
}

func (e *LiveProbeError) Error() string {
	return fmt.Sprintf("failed to fetch live response for %q: %v", e.Fixture, e.Err)
}

func (e *LiveProbeError) Unwrap() error {
	return e.Err
}

// SchemaExtractionError reports invalid JSON input to the fingerprint walk.
type SchemaExtractionError struct {
	Err error
}

func (e *SchemaExtractionError) Error() string {
	return fmt.Sprintf("cannot extract schema: %v", e.Err)
}

func (e *SchemaExtractionError) Unwrap() error {
	return e.Err
}

// SanitizationError reports a sanitize pass whose output was no longer valid
// JSON; the pre-sanitization backup has been restored when it is returned.
type SanitizationError struct {
	Fixture string
	Err     error
}

func (e *SanitizationError) Error() string {
	return fmt.Sprintf("sanitization of %q produced invalid JSON, backup restored: %v", e.Fixture, e.Err)
}

func (e *SanitizationError) Unwrap() error {
	return e.Err
}
