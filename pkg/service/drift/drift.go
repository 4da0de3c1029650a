// Package drift builds order-independent structural fingerprints of JSON
// documents and reports fields added or removed between a recorded fixture
// and a live response.
package drift

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/pkg/models"
	"github.com/ghstub/ghstub/utils"
)

type driftService struct {
	logger    *zap.Logger
	config    *config.Config
	fixtures  FixtureDB
	probe     LiveProbe
	sanitizer Sanitizer
	reporter  *Reporter
}

func New(logger *zap.Logger, cfg *config.Config, fixtures FixtureDB, probe LiveProbe, sanitizer Sanitizer, reporter *Reporter) Service {
	return &driftService{
		logger:    logger,
		config:    cfg,
		fixtures:  fixtures,
		probe:     probe,
		sanitizer: sanitizer,
		reporter:  reporter,
	}
}

// Fingerprint walks a JSON document into its set of (path, leafKind)
// pairs. Object keys become dot-joined path segments, arrays are sampled
// at element 0 under a "[*]" segment, and an empty array leaves a marker
// so "present but empty" differs from "absent". Scalar values are ignored
// entirely; only names and types survive.
func (d *driftService) Fingerprint(doc []byte) (*models.SchemaFingerprint, error) {
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, &models.SchemaExtractionError{Err: err}
	}
	fp := models.NewSchemaFingerprint()
	walkValue(v, "", fp)
	return fp, nil
}

func walkValue(v interface{}, path string, fp *models.SchemaFingerprint) {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, val := range t {
			walkValue(val, joinPath(path, key), fp)
		}
	case []interface{}:
		if len(t) == 0 {
			fp.Add(path, models.LeafEmptyArray)
			return
		}
		// heterogeneous arrays report only the first element's shape
		walkValue(t[0], path+"[*]", fp)
	case string:
		fp.Add(path, models.LeafString)
	case float64:
		fp.Add(path, models.LeafNumber)
	case bool:
		fp.Add(path, models.LeafBoolean)
	case nil:
		fp.Add(path, models.LeafNull)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Compare diffs two fingerprints built with the same extraction rules.
// A path whose leaf kind changed shows up in both sets.
func (d *driftService) Compare(fixture string, recorded, live *models.SchemaFingerprint) models.DriftReport {
	var added, removed []string
	for _, e := range live.Entries() {
		if !recorded.Contains(e) {
			added = append(added, e.Path)
		}
	}
	for _, e := range recorded.Entries() {
		if !live.Contains(e) {
			removed = append(removed, e.Path)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return models.DriftReport{
		Fixture:  fixture,
		Added:    added,
		Removed:  removed,
		HasDrift: len(added) > 0 || len(removed) > 0,
	}
}

var placeholderRe = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Run checks every selected fixture against a fresh live probe. Dynamic
// fixtures (unresolved placeholders after substitution) are skipped and
// counted separately; probe and extraction failures mark the fixture
// failed and the run continues.
func (d *driftService) Run(ctx context.Context, opts RunOptions) (*models.DriftSummary, error) {
	domains, err := d.selectDomains(ctx, opts)
	if err != nil {
		return nil, err
	}

	summary := &models.DriftSummary{}
	for _, domain := range domains {
		manifest, err := d.fixtures.GetManifest(ctx, domain)
		if err != nil {
			utils.LogError(d.logger, err, "failed to load fixture manifest", zap.String("domain", domain))
			return nil, err
		}
		for _, name := range sortedFixtureNames(manifest) {
			if opts.Fixture != "" && name != opts.Fixture {
				continue
			}
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			d.checkFixture(ctx, manifest, name, opts, summary)
		}
	}

	d.reporter.RenderSummary(summary)
	return summary, nil
}

func (d *driftService) selectDomains(ctx context.Context, opts RunOptions) ([]string, error) {
	if opts.Domain != "" {
		return []string{opts.Domain}, nil
	}
	if !opts.All {
		return nil, fmt.Errorf("no fixtures selected: pass --all, --domain or --fixture")
	}
	domains, err := d.fixtures.GetAllDomains(ctx)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("no fixture manifests found under %s", d.config.FixtureRoot())
	}
	return domains, nil
}

func sortedFixtureNames(manifest *models.FixtureManifest) []string {
	names := make([]string, 0, len(manifest.Fixtures))
	for name := range manifest.Fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *driftService) checkFixture(ctx context.Context, manifest *models.FixtureManifest, name string, opts RunOptions, summary *models.DriftSummary) {
	spec := manifest.Fixtures[name]
	id := manifest.Domain + "/" + name

	req, dynamic := d.buildProbeRequest(spec)
	if dynamic {
		d.logger.Info("skipping dynamic fixture", zap.String("fixture", id))
		summary.Record(models.FixtureResult{Fixture: id, Status: models.DriftSkipped})
		return
	}

	recordedBody, err := d.fixtures.Read(ctx, fixtureFile(manifest.Domain, name))
	if err != nil {
		d.fail(summary, id, err, "failed to read recorded fixture")
		return
	}
	recorded, err := d.Fingerprint(recordedBody)
	if err != nil {
		d.fail(summary, id, err, "failed to fingerprint recorded fixture")
		return
	}

	liveBody, err := d.probe.Fetch(ctx, req)
	if err != nil {
		d.fail(summary, id, &models.LiveProbeError{Fixture: id, Err: err}, "failed to fetch live response")
		return
	}
	live, err := d.Fingerprint(liveBody)
	if err != nil {
		d.fail(summary, id, err, "failed to fingerprint live response")
		return
	}

	report := d.Compare(id, recorded, live)
	d.reporter.RenderReport(report)
	if opts.Verbose && report.HasDrift {
		d.reporter.RenderValueDiff(id, recordedBody, liveBody)
	}

	if !report.HasDrift {
		summary.Record(models.FixtureResult{Fixture: id, Status: models.DriftPass, Report: &report})
		return
	}

	if opts.Update {
		if err := d.reRecord(ctx, manifest, name, liveBody); err != nil {
			d.fail(summary, id, err, "failed to re-record drifted fixture")
			return
		}
		summary.Updated++
	}
	summary.Record(models.FixtureResult{Fixture: id, Status: models.DriftFound, Report: &report})
}

func (d *driftService) fail(summary *models.DriftSummary, id string, err error, msg string) {
	utils.LogError(d.logger, err, msg, zap.String("fixture", id))
	summary.Record(models.FixtureResult{Fixture: id, Status: models.DriftFailed, Err: err})
}

// buildProbeRequest substitutes {owner}/{repo} and variable placeholders
// into the fixture descriptor. A leftover placeholder marks the fixture
// dynamic: its inputs only exist while the recording setup runs, so a
// drift probe cannot reproduce them.
func (d *driftService) buildProbeRequest(spec models.FixtureSpec) (models.ProbeRequest, bool) {
	vars := map[string]string{
		"owner": firstNonEmpty(spec.TestOrg, d.config.TestOrg),
		"repo":  firstNonEmpty(spec.TestRepo, d.config.TestRepo),
	}
	for k, v := range spec.Variables {
		if s, ok := v.(string); ok {
			vars[k] = s
		}
	}

	endpoint := spec.Endpoint
	for k, v := range vars {
		if v != "" {
			endpoint = strings.ReplaceAll(endpoint, "{"+k+"}", v)
		}
	}

	req := models.ProbeRequest{
		Category:  models.Category(spec.Type),
		Query:     spec.Query,
		Endpoint:  endpoint,
		Method:    firstNonEmpty(spec.Method, "GET"),
		Variables: vars,
	}
	return req, placeholderRe.MatchString(endpoint)
}

func (d *driftService) reRecord(ctx context.Context, manifest *models.FixtureManifest, name string, liveBody []byte) error {
	id := manifest.Domain + "/" + name
	spec := manifest.Fixtures[name]
	file := fixtureFile(manifest.Domain, name)

	sanitized, err := d.sanitizer.SanitizeBody(id, liveBody, spec.Sanitize)
	if err != nil {
		return err
	}
	if err := d.fixtures.Write(ctx, file, sanitized); err != nil {
		return err
	}
	d.fixtures.RemoveBackup(file)

	spec.LastRecorded = time.Now().UTC().Format(time.RFC3339)
	manifest.Fixtures[name] = spec
	if err := d.fixtures.WriteManifest(ctx, manifest); err != nil {
		return err
	}
	d.logger.Info("re-recorded drifted fixture", zap.String("fixture", id))
	return nil
}

func fixtureFile(domain, name string) string {
	return domain + "/" + name + ".json"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
