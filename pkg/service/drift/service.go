package drift

import (
	"context"

	"github.com/ghstub/ghstub/pkg/models"
)

// Service detects structural drift between recorded fixtures and freshly
// probed live responses.
type Service interface {
	Fingerprint(doc []byte) (*models.SchemaFingerprint, error)
	Compare(fixture string, recorded, live *models.SchemaFingerprint) models.DriftReport
	Run(ctx context.Context, opts RunOptions) (*models.DriftSummary, error)
}

// LiveProbe performs the real API call for one fixture descriptor. It is
// supplied by the caller; any timeout or retry policy lives there, not in
// the drift core.
type LiveProbe interface {
	Fetch(ctx context.Context, req models.ProbeRequest) ([]byte, error)
}

// FixtureDB is the storage surface the runner needs, implemented by
// fixturedb.FixtureYaml.
type FixtureDB interface {
	GetAllDomains(ctx context.Context) ([]string, error)
	GetManifest(ctx context.Context, domain string) (*models.FixtureManifest, error)
	WriteManifest(ctx context.Context, manifest *models.FixtureManifest) error
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, body []byte) error
	RestoreBackup(name string) error
	RemoveBackup(name string)
}

// Sanitizer post-processes a live body before it is re-recorded.
type Sanitizer interface {
	SanitizeBody(fixture string, body []byte, rules []models.SanitizeRule) ([]byte, error)
}

// RunOptions selects the fixtures of one drift session.
type RunOptions struct {
	All     bool
	Domain  string
	Fixture string
	Verbose bool
	Update  bool
}
