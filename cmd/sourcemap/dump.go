package main

import (
	"fmt"
	"os"

	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	dumpHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dumpSourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dumpNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	dumpDimStyle    = lipgloss.NewStyle().Faint(true)
)

func newDumpCommand(logger logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.map>",
		Short: "List every generated position to original position mapping",
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
			logger.Debugf("dumping %d tokens from %s", sm.LenTokens(), args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, dumpHeaderStyle.Render(fmt.Sprintf("%s (%d tokens)", sm.File(), sm.LenTokens())))

			for i := 0; i < sm.LenTokens(); i++ {
				tok := sm.TokenAt(i)
				gen := fmt.Sprintf("%d:%d", tok.DstLine, tok.DstCol)

				view, ok := sm.LookupSourceView(tok)
				if !ok {
					fmt.Fprintf(out, "  %s %s\n", gen, dumpDimStyle.Render("(unmapped)"))
					continue
				}

				line := fmt.Sprintf("  %s -> %s:%d:%d", gen,
					dumpSourceStyle.Render(view.Source), view.Line, view.Column)
				if view.HasName {
					line += " " + dumpNameStyle.Render(view.Name)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
