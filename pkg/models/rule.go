// Package models holds the shared data types for rule registration,
// call recording and schema drift detection.
package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Category classifies a simulated request by the protocol surface it targets.
type Category string

const (
	GraphQL Category = "graphql"
	REST    Category = "rest"
	CLI     Category = "cli"
)

func (c Category) String() string {
	return string(c)
}

// ParseCategory validates a category read from a rule set or manifest.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case GraphQL, REST, CLI:
		return Category(s), nil
	}
	return "", fmt.Errorf(`unknown category %q, must be one of "graphql", "rest" or "cli"`, s)
}

// RuleOrigin marks where a rule came from. Overrides registered by a test
// are consulted before the loaded defaults during dispatch.
type RuleOrigin string

const (
	OriginDefault RuleOrigin = "default"
	OriginTest    RuleOrigin = "test"
)

// ResponseSource is a tagged union: either a fixture reference resolved
// against the fixture root, or an inline JSON body. Exactly one is set.
type ResponseSource struct {
	FixtureRef string
	Inline     json.RawMessage
}

func FromFixture(ref string) ResponseSource {
	return ResponseSource{FixtureRef: ref}
}

func FromInline(body []byte) ResponseSource {
	return ResponseSource{Inline: json.RawMessage(body)}
}

func (r ResponseSource) IsInline() bool {
	return r.FixtureRef == ""
}

// MockRule maps a request pattern of one category to a canned response.
// The pattern is compiled at registration time; category is immutable.
type MockRule struct {
	Pattern  *regexp.Regexp
	Category Category
	Response ResponseSource
	Origin   RuleOrigin
}

// CallRecord is appended on every dispatch, whether or not a rule matched.
type CallRecord struct {
	Time      time.Time
	Category  Category
	Signature string
	Matched   bool
	Rule      string
}
