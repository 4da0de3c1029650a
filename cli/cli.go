// Package cli wires the cobra commands to the services.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
)

type HookFunc func(ctx context.Context, logger *zap.Logger, conf *config.Config, factory ServiceFactory) *cobra.Command

// Registered holds the registered command hooks
var Registered map[string]HookFunc

func Register(name string, f HookFunc) {
	if Registered == nil {
		Registered = make(map[string]HookFunc)
	}
	Registered[name] = f
}

// ServiceFactory constructs the service a command needs. Close releases
// anything the factory handed out (registry sessions in particular) and
// must run on every exit path.
type ServiceFactory interface {
	GetService(ctx context.Context, cmd string) (interface{}, error)
	Close() error
}
