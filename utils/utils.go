// Package utils has shared helpers used across the cli and services.
package utils

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is injected at build time through ldflags.
var Version = "0-dev"

// LogError logs an error with the standard error-field convention. A nil
// logger falls back to the global zap logger so early-startup failures are
// still visible.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		logger = zap.L()
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(msg, fields...)
}

// BindFlagsToViper binds every local flag of cmd into viper under its
// dotted config name, so flag values override file values.
func BindFlagsToViper(logger *zap.Logger, cmd *cobra.Command, viperKeyPrefix string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if viperKeyPrefix != "" {
			key = viperKeyPrefix + "." + f.Name
		}
		if err := viper.BindPFlag(key, f); err != nil {
			logger.Error("failed to bind flag to viper", zap.String("flag", f.Name), zap.Error(err))
		}
	})
}
