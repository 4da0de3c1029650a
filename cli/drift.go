package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	driftSvc "github.com/ghstub/ghstub/pkg/service/drift"
	"github.com/ghstub/ghstub/utils"
)

// ErrDriftFound makes the process exit non-zero when any fixture drifted
// or a check failed hard.
var ErrDriftFound = errors.New("schema drift detected")

func init() {
	Register("drift", Drift)
}

func Drift(ctx context.Context, logger *zap.Logger, conf *config.Config, factory ServiceFactory) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "drift",
		Short:   "compare recorded fixture schemas against the live API",
		Example: `ghstub drift --all
ghstub drift --domain issue
ghstub drift --domain issue --fixture list --update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			drift, ok := svc.(driftSvc.Service)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy drift service interface")
				return errors.New("internal: wrong service for drift")
			}

			opts := driftSvc.RunOptions{
				All:     conf.Drift.All,
				Domain:  conf.Drift.Domain,
				Fixture: conf.Drift.Fixture,
				Verbose: conf.Drift.Verbose,
				Update:  conf.Drift.Update,
			}
			if opts.Fixture != "" && opts.Domain == "" {
				return errors.New("--fixture requires --domain")
			}

			summary, err := drift.Run(ctx, opts)
			if err != nil {
				utils.LogError(logger, err, "drift check failed")
				return err
			}
			if summary.HasFailures() {
				return ErrDriftFound
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", conf.Drift.All, "Check every fixture domain")
	cmd.Flags().String("domain", conf.Drift.Domain, "Check one fixture domain")
	cmd.Flags().String("fixture", conf.Drift.Fixture, "Check a single fixture of --domain by name")
	cmd.Flags().Bool("verbose", conf.Drift.Verbose, "Also print the value-level diff of drifted fixtures")
	cmd.Flags().Bool("update", conf.Drift.Update, "Re-record drifted fixtures in place")
	cmd.Flags().String("probeCommand", conf.Drift.ProbeCommand, "Command used to fetch live responses")

	return cmd
}
