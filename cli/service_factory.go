package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/pkg/platform/yaml/fixturedb"
	"github.com/ghstub/ghstub/pkg/registry"
	driftSvc "github.com/ghstub/ghstub/pkg/service/drift"
	sanitizeSvc "github.com/ghstub/ghstub/pkg/service/sanitize"
)

type serviceProvider struct {
	logger   *zap.Logger
	conf     *config.Config
	sessions []*registry.RegistrySession
}

func NewServiceProvider(logger *zap.Logger, conf *config.Config) ServiceFactory {
	return &serviceProvider{
		logger: logger,
		conf:   conf,
	}
}

func (p *serviceProvider) GetService(_ context.Context, cmd string) (interface{}, error) {
	fixtures := fixturedb.New(p.logger, p.conf.FixtureRoot())
	switch cmd {
	case "drift", "fingerprint":
		sanitizer := sanitizeSvc.New(p.logger, fixtures)
		probe := NewExecProbe(p.logger, p.conf.Drift.ProbeCommand)
		reporter := driftSvc.NewReporter(p.logger, os.Stdout)
		return driftSvc.New(p.logger, p.conf, fixtures, probe, sanitizer, reporter), nil
	case "sanitize":
		return sanitizeSvc.New(p.logger, fixtures), nil
	case "rules":
		session, err := registry.New(p.logger, p.conf)
		if err != nil {
			return nil, err
		}
		p.sessions = append(p.sessions, session)
		return session, nil
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

// Close tears down every session the provider handed out. main defers it
// so session scratch state is released on every exit path, including a
// signal-cancelled run.
func (p *serviceProvider) Close() error {
	var firstErr error
	for _, session := range p.sessions {
		if err := session.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.sessions = nil
	return firstErr
}
