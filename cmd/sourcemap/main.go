// Command sourcemap validates, inspects, concatenates, and watches
// Source Map v3 files.
package main

import (
	"fmt"
	"os"

	"github.com/MadAppGang/sourcemap/internal/config"
	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sourcemap: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)
	defer logger.Sync()

	root := newRootCommand(cfg, logger)
	if err := root.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "sourcemap",
		Short:         "Inspect, build, and splice Source Map v3 files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newValidateCommand(logger),
		newDumpCommand(logger),
		newLookupCommand(logger),
		newConcatCommand(cfg, logger),
		newWatchCommand(cfg, logger),
	)
	return root
}
