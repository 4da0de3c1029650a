package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/utils"
	"github.com/ghstub/ghstub/utils/log"
)

var rootExamples = `
  Check every fixture domain for schema drift:
	ghstub drift --all

  Check one domain verbosely and re-record what drifted:
	ghstub drift --domain issue --verbose --update

  List the default mock rules:
	ghstub rules

  Print the structural fingerprint of a JSON document:
	ghstub fingerprint response.json
`

func SetFlags(logger *zap.Logger, cmd *cobra.Command, conf *config.Config) error {
	cmd.PersistentFlags().StringP("path", "p", conf.Path, "Path to the directory holding rules/ and fixtures/")
	cmd.PersistentFlags().String("rule-path", conf.RulePath, "Override for the rule set directory")
	cmd.PersistentFlags().String("fixture-path", conf.FixturePath, "Override for the fixture directory")
	cmd.PersistentFlags().String("config-path", conf.ConfigPath, "Path to the ghstub configuration file")
	cmd.PersistentFlags().Bool("debug", conf.Debug, "Run in debug mode")
	cmd.PersistentFlags().Bool("disable-ansi", conf.DisableANSI, "Disable colored output")
	cmd.PersistentFlags().String("test-org", conf.TestOrg, "Organization substituted for {owner} placeholders")
	cmd.PersistentFlags().String("test-repo", conf.TestRepo, "Repository substituted for {repo} placeholders")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		logger.Error("failed to bind flags to config", zap.Error(err))
		return err
	}
	return nil
}

// CheckPersistent merges the config file (when present) and the parsed
// flags into conf, then applies the debug and color switches.
func CheckPersistent(logger *zap.Logger, conf *config.Config) error {
	configPath := viper.GetString("config-path")
	if configPath == "" {
		configPath = "ghstub.yaml"
	}
	if _, err := os.Stat(configPath); err == nil {
		viper.SetConfigFile(configPath)
		if err := viper.MergeInConfig(); err != nil {
			utils.LogError(logger, err, "failed to read config file", zap.String("path", configPath))
			return err
		}
	}
	if err := viper.Unmarshal(conf); err != nil {
		utils.LogError(logger, err, "failed to unmarshal the config")
		return err
	}
	conf.ConfigPath = configPath
	conf.Path = firstNonEmptyStr(viper.GetString("path"), conf.Path)
	conf.RulePath = firstNonEmptyStr(viper.GetString("rule-path"), conf.RulePath)
	conf.FixturePath = firstNonEmptyStr(viper.GetString("fixture-path"), conf.FixturePath)
	conf.Debug = conf.Debug || viper.GetBool("debug")
	conf.DisableANSI = conf.DisableANSI || viper.GetBool("disable-ansi")
	conf.TestOrg = firstNonEmptyStr(viper.GetString("test-org"), conf.TestOrg)
	conf.TestRepo = firstNonEmptyStr(viper.GetString("test-repo"), conf.TestRepo)

	if conf.Path != "" {
		abs, err := filepath.Abs(conf.Path)
		if err != nil {
			utils.LogError(logger, err, "failed to resolve absolute path", zap.String("path", conf.Path))
			return err
		}
		conf.Path = abs
	}

	if conf.DisableANSI {
		color.NoColor = true
	}
	if conf.Debug {
		if _, err := log.ChangeLogLevel(zap.DebugLevel); err != nil {
			return err
		}
	}
	logger.Debug("initialized with configuration", zap.Any("conf", conf))
	return nil
}

func firstNonEmptyStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func Root(ctx context.Context, logger *zap.Logger, conf *config.Config, factory ServiceFactory) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:     "ghstub",
		Short:   "ghstub virtualizes the GitHub API for tests and detects fixture schema drift",
		Example: rootExamples,
		Version: utils.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return CheckPersistent(logger, conf)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(`{{with .Version}}{{printf "ghstub %s" .}}{{end}}{{"\n"}}`)

	if err := SetFlags(logger, rootCmd, conf); err != nil {
		logger.Error("failed to set flags", zap.Error(err))
		return nil
	}

	for _, hook := range Registered {
		c := hook(ctx, logger, conf, factory)
		if c == nil {
			continue
		}
		utils.BindFlagsToViper(logger, c, c.Name())
		rootCmd.AddCommand(c)
	}
	return rootCmd
}
