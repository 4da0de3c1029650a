package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	driftSvc "github.com/ghstub/ghstub/pkg/service/drift"
	"github.com/ghstub/ghstub/utils"
)

func init() {
	Register("fingerprint", Fingerprint)
}

// Fingerprint prints the structural fingerprint of a JSON document, a
// debugging aid for understanding why a fixture drifted.
func Fingerprint(ctx context.Context, logger *zap.Logger, _ *config.Config, factory ServiceFactory) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "fingerprint FILE",
		Short:   "print the structural fingerprint of a JSON document",
		Example: `ghstub fingerprint fixtures/issue/list.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			drift, ok := svc.(driftSvc.Service)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy drift service interface")
				return errors.New("internal: wrong service for fingerprint")
			}

			doc, err := os.ReadFile(args[0])
			if err != nil {
				utils.LogError(logger, err, "failed to read document", zap.String("file", args[0]))
				return err
			}
			fp, err := drift.Fingerprint(doc)
			if err != nil {
				utils.LogError(logger, err, "failed to fingerprint document", zap.String("file", args[0]))
				return err
			}
			for _, entry := range fp.Entries() {
				fmt.Println(entry.String())
			}
			return nil
		},
	}
	return cmd
}
