package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/pkg/registry"
	"github.com/ghstub/ghstub/utils"
)

func init() {
	Register("rules", Rules)
}

// Rules loads the default rule sets into a fresh session and lists them,
// which doubles as validation of every domain file.
func Rules(ctx context.Context, logger *zap.Logger, _ *config.Config, factory ServiceFactory) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "rules",
		Short: "list and validate the default mock rule sets",
		Example: `ghstub rules
ghstub rules --domain issue`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			session, ok := svc.(*registry.RegistrySession)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy registry session interface")
				return errors.New("internal: wrong service for rules")
			}

			domain, err := cmd.Flags().GetString("domain")
			if err != nil {
				return err
			}
			if domain != "" {
				err = session.LoadDomain(ctx, domain)
			} else {
				err = session.Init(ctx)
			}
			if err != nil {
				utils.LogError(logger, err, "failed to load default rule sets")
				return err
			}

			rules := session.Rules()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Category", "Pattern", "Response"})
			table.SetBorder(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for i, rule := range rules {
				response := rule.Response.FixtureRef
				if rule.Response.IsInline() {
					response = "(inline)"
				}
				table.Append([]string{fmt.Sprintf("%d", i+1), rule.Category.String(), rule.Pattern.String(), response})
			}
			table.Render()
			fmt.Printf("\n%d rules loaded\n", len(rules))
			return nil
		},
	}
	cmd.Flags().String("domain", "", "List one domain's rule set only")
	return cmd
}
