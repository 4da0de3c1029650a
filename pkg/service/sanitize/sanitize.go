// Package sanitize rewrites recorded API responses so fixtures carry no
// real identities, credentials or wall-clock timestamps.
package sanitize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/pkg/models"
	"github.com/ghstub/ghstub/utils"
)

type service struct {
	logger   *zap.Logger
	fixtures FixtureDB
}

func New(logger *zap.Logger, fixtures FixtureDB) Service {
	return &service{
		logger:   logger,
		fixtures: fixtures,
	}
}

var timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`)

// maskedFields are identity and credential keys replaced with fixed
// placeholders wherever they appear in a document.
type maskedField struct {
	re          *regexp.Regexp
	replacement string
}

func newMaskedField(field, placeholder string) maskedField {
	return maskedField{
		re:          regexp.MustCompile(`"` + field + `"\s*:\s*"(?:[^"\\]|\\.)*"`),
		replacement: `"` + field + `":"` + placeholder + `"`,
	}
}

var maskedFields = []maskedField{
	newMaskedField("node_id", "NODE_ID"),
	newMaskedField("gravatar_id", ""),
	newMaskedField("email", "octocat@example.com"),
	newMaskedField("token", "REDACTED"),
	newMaskedField("access_token", "REDACTED"),
}

// syntheticEpoch anchors the normalized timestamp sequence.
var syntheticEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// SanitizeBody applies the manifest's path rules, normalizes every
// RFC3339-looking timestamp to a synthetic sequence that preserves
// relative ordering, and masks known credential fields. The result is
// re-validated as JSON before it is returned.
func (s *service) SanitizeBody(fixture string, body []byte, rules []models.SanitizeRule) ([]byte, error) {
	out := body
	var err error
	for _, rule := range rules {
		out, err = sjson.SetBytes(out, rule.Path, rule.Value)
		if err != nil {
			return nil, &models.SanitizationError{Fixture: fixture, Err: fmt.Errorf("failed to apply rule at %q: %w", rule.Path, err)}
		}
	}

	out = normalizeTimestamps(out)
	out = maskFields(out)

	if !gjson.ValidBytes(out) {
		return nil, &models.SanitizationError{Fixture: fixture, Err: fmt.Errorf("sanitized body is not valid JSON")}
	}
	return out, nil
}

// normalizeTimestamps maps each distinct timestamp to syntheticEpoch plus
// its rank in chronological order, so "created before" stays observable
// while the real times disappear.
func normalizeTimestamps(body []byte) []byte {
	found := timestampRe.FindAllString(string(body), -1)
	if len(found) == 0 {
		return body
	}

	distinct := map[string]time.Time{}
	for _, raw := range found {
		if _, ok := distinct[raw]; ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		distinct[raw] = t
	}

	ordered := make([]string, 0, len(distinct))
	for raw := range distinct {
		ordered = append(ordered, raw)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if distinct[ordered[i]].Equal(distinct[ordered[j]]) {
			return ordered[i] < ordered[j]
		}
		return distinct[ordered[i]].Before(distinct[ordered[j]])
	})

	text := string(body)
	for i, raw := range ordered {
		synthetic := syntheticEpoch.Add(time.Duration(i) * time.Minute).Format(time.RFC3339)
		text = strings.ReplaceAll(text, raw, synthetic)
	}
	return []byte(text)
}

func maskFields(body []byte) []byte {
	text := string(body)
	for _, f := range maskedFields {
		text = f.re.ReplaceAllString(text, f.replacement)
	}
	return []byte(text)
}

// SanitizeDomain sanitizes every recorded fixture of one domain in place.
// A fixture whose sanitized form fails validation is rolled back from its
// backup and reported; the pass continues with the next fixture.
func (s *service) SanitizeDomain(ctx context.Context, domain string) error {
	manifest, err := s.fixtures.GetManifest(ctx, domain)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(manifest.Fixtures))
	for name := range manifest.Fixtures {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed int
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sanitizeFixture(ctx, domain, name, manifest.Fixtures[name].Sanitize); err != nil {
			utils.LogError(s.logger, err, "failed to sanitize fixture",
				zap.String("fixture", domain+"/"+name))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fixtures in domain %q failed sanitization", failed, len(names), domain)
	}
	s.logger.Info("sanitized domain", zap.String("domain", domain), zap.Int("fixtures", len(names)))
	return nil
}

func (s *service) sanitizeFixture(ctx context.Context, domain, name string, rules []models.SanitizeRule) error {
	file := domain + "/" + name + ".json"
	body, err := s.fixtures.Read(ctx, file)
	if err != nil {
		return err
	}

	sanitized, err := s.SanitizeBody(domain+"/"+name, body, rules)
	if err != nil {
		return err
	}
	if err := s.fixtures.Write(ctx, file, sanitized); err != nil {
		return err
	}

	// verify what landed on disk, roll back from the backup otherwise
	written, err := s.fixtures.Read(ctx, file)
	if err != nil || !gjson.ValidBytes(written) {
		if restoreErr := s.fixtures.RestoreBackup(file); restoreErr != nil {
			return restoreErr
		}
		return &models.SanitizationError{Fixture: domain + "/" + name, Err: fmt.Errorf("written fixture failed validation")}
	}
	s.fixtures.RemoveBackup(file)
	return nil
}

// SanitizeAll runs the pipeline over every domain, continuing past
// per-domain failures and reporting them together.
func (s *service) SanitizeAll(ctx context.Context) error {
	domains, err := s.fixtures.GetAllDomains(ctx)
	if err != nil {
		return err
	}
	var errs []string
	for _, domain := range domains {
		if err := s.SanitizeDomain(ctx, domain); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sanitization failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
