// Package fixturedb stores recorded API response fixtures and the
// per-domain manifests describing how they were captured.
package fixturedb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"

	"github.com/ghstub/ghstub/pkg/models"
	yamlStore "github.com/ghstub/ghstub/pkg/platform/yaml"
)

const manifestFile = "fixtures.yaml"

type FixtureYaml struct {
	logger *zap.Logger
	root   string
}

func New(logger *zap.Logger, root string) *FixtureYaml {
	return &FixtureYaml{
		logger: logger,
		root:   root,
	}
}

// Resolve turns a response source into a concrete JSON body. Fixture
// references are tried under the fixture root first and as a literal path
// second; every returned body is validated as JSON here so callers never
// see an unparseable response.
func (f *FixtureYaml) Resolve(ctx context.Context, src models.ResponseSource) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.IsInline() {
		if !gjson.ValidBytes(src.Inline) {
			return nil, &models.MalformedResponseError{Source: "inline body"}
		}
		return src.Inline, nil
	}

	searched := []string{filepath.Join(f.root, src.FixtureRef), src.FixtureRef}
	for _, path := range searched {
		if !yamlStore.FileExists(path) {
			continue
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
		}
		if !gjson.ValidBytes(body) {
			return nil, &models.MalformedResponseError{Source: "fixture " + path}
		}
		return body, nil
	}
	return nil, &models.FixtureNotFoundError{Ref: src.FixtureRef, Searched: searched}
}

// Read returns the raw contents of a fixture by its path under the root.
func (f *FixtureYaml) Read(_ context.Context, name string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(f.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &models.FixtureNotFoundError{Ref: name, Searched: []string{filepath.Join(f.root, name)}}
		}
		return nil, err
	}
	return body, nil
}

// Write records a fixture body, keeping the previous contents as a .bak
// sibling so a bad write can be rolled back.
func (f *FixtureYaml) Write(ctx context.Context, name string, body []byte) error {
	path := filepath.Join(f.root, name)
	if yamlStore.FileExists(path) {
		prev, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to back up fixture %s: %w", name, err)
		}
		if err := os.WriteFile(path+".bak", prev, 0o644); err != nil {
			return fmt.Errorf("failed to back up fixture %s: %w", name, err)
		}
	}
	return yamlStore.WriteFile(ctx, f.logger, filepath.Dir(path), filepath.Base(path), body)
}

// RestoreBackup puts the .bak contents back in place of a fixture.
func (f *FixtureYaml) RestoreBackup(name string) error {
	path := filepath.Join(f.root, name)
	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		return fmt.Errorf("no backup to restore for fixture %s: %w", name, err)
	}
	if err := os.WriteFile(path, backup, 0o644); err != nil {
		return fmt.Errorf("failed to restore fixture %s: %w", name, err)
	}
	return os.Remove(path + ".bak")
}

// RemoveBackup discards the .bak sibling after a successful write.
func (f *FixtureYaml) RemoveBackup(name string) {
	if err := os.Remove(filepath.Join(f.root, name) + ".bak"); err != nil && !os.IsNotExist(err) {
		f.logger.Debug("failed to remove fixture backup", zap.String("fixture", name), zap.Error(err))
	}
}

// GetAllDomains lists the fixture domains: subdirectories of the root that
// carry a manifest.
func (f *FixtureYaml) GetAllDomains(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fixture root %s: %w", f.root, err)
	}
	var domains []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if yamlStore.FileExists(filepath.Join(f.root, e.Name(), manifestFile)) {
			domains = append(domains, e.Name())
		}
	}
	sort.Strings(domains)
	return domains, nil
}

// GetManifest loads one domain's fixture manifest.
func (f *FixtureYaml) GetManifest(_ context.Context, domain string) (*models.FixtureManifest, error) {
	data, err := yamlStore.ReadFile(filepath.Join(f.root, domain), manifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture manifest for domain %q: %w", domain, err)
	}
	var manifest models.FixtureManifest
	if err := yamlLib.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse fixture manifest for domain %q: %w", domain, err)
	}
	manifest.Domain = domain
	return &manifest, nil
}

// WriteManifest persists an updated manifest, used after re-recording to
// refresh last_recorded stamps.
func (f *FixtureYaml) WriteManifest(ctx context.Context, manifest *models.FixtureManifest) error {
	data, err := yamlLib.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode fixture manifest for domain %q: %w", manifest.Domain, err)
	}
	return yamlStore.WriteFile(ctx, f.logger, filepath.Join(f.root, manifest.Domain), manifestFile, data)
}
