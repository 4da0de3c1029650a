package models

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// LeafKind is the terminal type of a JSON field in a fingerprint.
type LeafKind string

const (
	LeafString     LeafKind = "string"
	LeafNumber     LeafKind = "number"
	LeafBoolean    LeafKind = "boolean"
	LeafNull       LeafKind = "null"
	LeafEmptyArray LeafKind = "empty-array"
)

// FieldEntry is one (path, leafKind) pair of a fingerprint. Paths are
// dot-joined object keys with array indices collapsed to "[*]".
type FieldEntry struct {
	Path string
	Kind LeafKind
}

func (e FieldEntry) String() string {
	return e.Path + " (" + string(e.Kind) + ")"
}

func compareEntries(a, b interface{}) int {
	ea := a.(FieldEntry)
	eb := b.(FieldEntry)
	if c := strings.Compare(ea.Path, eb.Path); c != 0 {
		return c
	}
	return strings.Compare(string(ea.Kind), string(eb.Kind))
}

// SchemaFingerprint is the structural summary of one JSON document: an
// ordered set of field entries, stable under key reordering and blind to
// scalar values. Immutable once built.
type SchemaFingerprint struct {
	set *treeset.Set
}

func NewSchemaFingerprint() *SchemaFingerprint {
	return &SchemaFingerprint{set: treeset.NewWith(compareEntries)}
}

func (f *SchemaFingerprint) Add(path string, kind LeafKind) {
	f.set.Add(FieldEntry{Path: path, Kind: kind})
}

func (f *SchemaFingerprint) Len() int {
	return f.set.Size()
}

func (f *SchemaFingerprint) Contains(e FieldEntry) bool {
	return f.set.Contains(e)
}

// Entries returns the fields in sorted path order.
func (f *SchemaFingerprint) Entries() []FieldEntry {
	vals := f.set.Values()
	out := make([]FieldEntry, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(FieldEntry))
	}
	return out
}

func (f *SchemaFingerprint) Equal(other *SchemaFingerprint) bool {
	if f.Len() != other.Len() {
		return false
	}
	for _, e := range f.Entries() {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// DriftStatus is the per-fixture outcome of one drift check.
type DriftStatus string

const (
	DriftPass    DriftStatus = "pass"
	DriftFound   DriftStatus = "drift"
	DriftSkipped DriftStatus = "skip"
	DriftFailed  DriftStatus = "fail"
)

// DriftReport is the structural difference of one fixture-vs-live pair.
// Added and Removed hold sorted paths; a path whose leaf kind changed
// appears in both.
type DriftReport struct {
	Fixture  string
	Added    []string
	Removed  []string
	HasDrift bool
}

// FixtureResult couples a fixture identifier with its check outcome.
type FixtureResult struct {
	Fixture string
	Status  DriftStatus
	Report  *DriftReport
	Err     error
}

// DriftSummary aggregates one drift session.
type DriftSummary struct {
	Results []FixtureResult
	Passed  int
	Drifted int
	Skipped int
	Failed  int
	Updated int
}

func (s *DriftSummary) Record(res FixtureResult) {
	s.Results = append(s.Results, res)
	switch res.Status {
	case DriftPass:
		s.Passed++
	case DriftFound:
		s.Drifted++
	case DriftSkipped:
		s.Skipped++
	case DriftFailed:
		s.Failed++
	}
}

// HasFailures reports whether the session should exit non-zero.
func (s *DriftSummary) HasFailures() bool {
	return s.Drifted > 0 || s.Failed > 0
}
