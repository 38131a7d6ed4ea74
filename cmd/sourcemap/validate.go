package main

import (
	"fmt"
	"os"

	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/spf13/cobra"
)

func newValidateCommand(logger logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.map>",
		Short: "Parse a source map and report whether it's well-formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sm, err := sourcemap.Decode(data)
			if err != nil {
				return err
			}
			logger.Debugf("validated %s", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d sources, %d names, %d tokens\n",
				sm.LenSources(), sm.LenNames(), sm.LenTokens())
			return nil
		},
	}
}
