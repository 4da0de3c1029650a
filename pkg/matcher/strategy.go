package matcher

import (
	"regexp"

	"github.com/ghstub/ghstub/pkg/models"
)

// Strategy is one pass of the resolution fallback chain. Candidate derives
// the string a rule pattern is tested against; anchored strategies require
// the pattern to cover the whole candidate, loose ones accept any submatch.
type Strategy struct {
	Name      string
	Anchored  bool
	Candidate func(raw, signature string) string
}

// Matches tests a rule pattern against the strategy's candidate string.
func (s Strategy) Matches(pattern *regexp.Regexp, raw, signature string) bool {
	candidate := s.Candidate(raw, signature)
	if candidate == "" {
		return false
	}
	if !s.Anchored {
		return pattern.MatchString(candidate)
	}
	loc := pattern.FindStringIndex(candidate)
	return loc != nil && loc[0] == 0 && loc[1] == len(candidate)
}

// StrategiesFor returns the ordered fallback chain of one category:
// graphql tries the operation name and then the raw query text; rest tries
// the method-prefixed endpoint, the endpoint alone, and a loose substring
// pass; cli tries "command subcommand" and then the command alone.
func StrategiesFor(category models.Category) []Strategy {
	switch category {
	case models.GraphQL:
		return []Strategy{
			{Name: "operation", Anchored: true, Candidate: func(_, sig string) string { return sig }},
			{Name: "query-text", Anchored: false, Candidate: func(raw, _ string) string { return raw }},
		}
	case models.REST:
		return []Strategy{
			{Name: "method-endpoint", Anchored: true, Candidate: func(_, sig string) string { return sig }},
			{Name: "endpoint", Anchored: true, Candidate: func(raw, _ string) string { return Endpoint(raw) }},
			{Name: "substring", Anchored: false, Candidate: func(raw, _ string) string { return Endpoint(raw) }},
		}
	case models.CLI:
		return []Strategy{
			{Name: "command-subcommand", Anchored: true, Candidate: func(_, sig string) string { return sig }},
			{Name: "command", Anchored: true, Candidate: func(raw, _ string) string { return Command(raw) }},
		}
	}
	return nil
}
