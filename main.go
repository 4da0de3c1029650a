package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghstub/ghstub/cli"
	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/utils"
	"github.com/ghstub/ghstub/utils/log"
)

// version is injected during build by ldflags.
var version string

func main() {
	if version != "" {
		utils.Version = version
	}
	os.Exit(run())
}

// run keeps the deferred teardown ahead of the exit call: sessions and
// scratch directories are released on normal completion, on error and on
// SIGINT/SIGTERM alike.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := log.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf := config.New()
	factory := cli.NewServiceProvider(logger, conf)
	defer func() {
		if err := factory.Close(); err != nil {
			utils.LogError(logger, err, "failed to release services")
		}
	}()

	rootCmd := cli.Root(ctx, logger, conf, factory)
	if rootCmd == nil {
		return 1
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrDriftFound) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
