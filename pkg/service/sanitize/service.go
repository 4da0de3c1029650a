package sanitize

import (
	"context"

	"github.com/ghstub/ghstub/pkg/models"
)

// Service scrubs recorded fixture bodies: manifest-declared path
// replacements, timestamp normalization and credential masking.
type Service interface {
	SanitizeBody(fixture string, body []byte, rules []models.SanitizeRule) ([]byte, error)
	SanitizeDomain(ctx context.Context, domain string) error
	SanitizeAll(ctx context.Context) error
}

// FixtureDB is the storage surface needed here, implemented by
// fixturedb.FixtureYaml.
type FixtureDB interface {
	GetAllDomains(ctx context.Context) ([]string, error)
	GetManifest(ctx context.Context, domain string) (*models.FixtureManifest, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, body []byte) error
	RestoreBackup(name string) error
	RemoveBackup(name string)
}
