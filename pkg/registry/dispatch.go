package registry

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ghstub/ghstub/pkg/matcher"
	"github.com/ghstub/ghstub/pkg/models"
)

// cliListCommands marks the cli verbs whose unmatched calls get an empty
// collection instead of an empty object, so callers that iterate without
// checking errors keep working.
var cliListCommands = map[string]bool{
	"list":   true,
	"search": true,
}

// Dispatch resolves one simulated request: the raw request is normalized
// to a signature, a call record is appended unconditionally, and the rules
// are scanned with the category's ordered fallback strategies. Test
// overrides are consulted before defaults; within each group the first
// registered match wins.
//
// An unmatched graphql or rest request is an explicit error, never an
// empty success body. Unmatched cli requests fall back to an empty result.
func (s *RegistrySession) Dispatch(ctx context.Context, category models.Category, raw string) ([]byte, error) {
	sig := matcher.Signature(category, raw)

	idx := len(s.calls)
	s.calls = append(s.calls, models.CallRecord{
		Time:      time.Now(),
		Category:  category,
		Signature: sig,
	})

	for _, strategy := range matcher.StrategiesFor(category) {
		for _, origin := range []models.RuleOrigin{models.OriginTest, models.OriginDefault} {
			for _, rule := range s.rules {
				if rule.Category != category || rule.Origin != origin {
					continue
				}
				if !strategy.Matches(rule.Pattern, raw, sig) {
					continue
				}
				s.calls[idx].Matched = true
				s.calls[idx].Rule = rule.Pattern.String()
				s.logger.Debug("dispatch matched",
					zap.String("signature", sig),
					zap.String("strategy", strategy.Name),
					zap.String("pattern", rule.Pattern.String()))
				return s.fixtures.Resolve(ctx, rule.Response)
			}
		}
	}

	if category == models.CLI {
		s.logger.Debug("dispatch fell back to empty cli result", zap.String("signature", sig))
		return cliEmptyResult(raw), nil
	}
	return nil, &models.UnregisteredRequestError{Category: category, Signature: sig}
}

// cli subcommands like "issue list" carry the verb second, so every token
// is checked.
func cliEmptyResult(raw string) []byte {
	for _, f := range strings.Fields(raw) {
		if cliListCommands[f] {
			return []byte("[]")
		}
	}
	return []byte("{}")
}
