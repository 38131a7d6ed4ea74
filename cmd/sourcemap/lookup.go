package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/spf13/cobra"
)

func newLookupCommand(logger logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <file.map> <line> <column>",
		Short: "Resolve one generated position to its original source position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			line, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			col, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[2], err)
			}

			sm, err := sourcemap.Decode(data)
			if err != nil {
				return err
			}
			logger.Debugf("looking up %d:%d in %s", line, col, args[0])

			tok, ok := sm.LookupToken(uint32(line), uint32(col))
			if !ok {
				return fmt.Errorf("no mapping at %d:%d", line, col)
			}
			view, ok := sm.LookupSourceView(tok)
			if !ok {
				return fmt.Errorf("no mapping at %d:%d", line, col)
			}

			out := cmd.OutOrStdout()
			if view.HasName {
				fmt.Fprintf(out, "%s:%d:%d (%s)\n", view.Source, view.Line, view.Column, view.Name)
			} else {
				fmt.Fprintf(out, "%s:%d:%d\n", view.Source, view.Line, view.Column)
			}
			return nil
		},
	}
}
