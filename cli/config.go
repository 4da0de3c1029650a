package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	yamlStore "github.com/ghstub/ghstub/pkg/platform/yaml"
	"github.com/ghstub/ghstub/utils"
)

func init() {
	Register("config", ConfigCmd)
}

func ConfigCmd(ctx context.Context, logger *zap.Logger, conf *config.Config, _ ServiceFactory) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "config",
		Short:   "manage the ghstub configuration file",
		Example: "ghstub config --generate --path /path/to/localdir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			isGenerate, err := cmd.Flags().GetBool("generate")
			if err != nil {
				utils.LogError(logger, err, "failed to get generate flag")
				return err
			}
			if !isGenerate {
				return errors.New("only the generate flag is supported in the config command")
			}

			dir := conf.Path
			if dir == "" {
				dir = "."
			}
			path := filepath.Join(dir, "ghstub.yaml")
			if yamlStore.FileExists(path) {
				logger.Warn("config file already exists, not overwriting", zap.String("path", path))
				return nil
			}
			if err := yamlStore.WriteFile(ctx, logger, dir, "ghstub.yaml", []byte(config.GetDefaultConfig())); err != nil {
				utils.LogError(logger, err, "failed to write config file", zap.String("path", path))
				return err
			}
			logger.Info("config file generated", zap.String("path", path))
			return nil
		},
	}

	cmd.Flags().Bool("generate", false, "Generate a default ghstub.yaml in the target directory")
	return cmd
}
