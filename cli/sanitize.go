package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	sanitizeSvc "github.com/ghstub/ghstub/pkg/service/sanitize"
	"github.com/ghstub/ghstub/utils"
)

func init() {
	Register("sanitize", Sanitize)
}

func Sanitize(ctx context.Context, logger *zap.Logger, conf *config.Config, factory ServiceFactory) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "sanitize",
		Short:   "scrub identities, credentials and timestamps from recorded fixtures",
		Example: `ghstub sanitize
ghstub sanitize --domain issue`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			sanitizer, ok := svc.(sanitizeSvc.Service)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy sanitize service interface")
				return errors.New("internal: wrong service for sanitize")
			}

			if conf.Sanitize.Domain != "" {
				err = sanitizer.SanitizeDomain(ctx, conf.Sanitize.Domain)
			} else {
				err = sanitizer.SanitizeAll(ctx)
			}
			if err != nil {
				utils.LogError(logger, err, "failed to sanitize fixtures")
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("domain", conf.Sanitize.Domain, "Sanitize one fixture domain only")
	return cmd
}
