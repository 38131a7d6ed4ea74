package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MadAppGang/sourcemap/internal/config"
	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/builder"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/spf13/cobra"
)

func newConcatCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	var out string
	var mode string

	cmd := &cobra.Command{
		Use:   "concat <file.map[:line_offset]>...",
		Short: "Splice N source maps end-to-end into one",
		Long: "Each argument is a source map path, optionally suffixed with " +
			"\":<line_offset>\" (default 0), giving the first generated line " +
			"that map's output occupies in the spliced result.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concatMode := cfg.Concat.Mode
			if mode != "" {
				concatMode = config.ConcatMode(mode)
			}

			var opts []builder.ConcatOption
			if concatMode == config.ConcatDedupe {
				opts = append(opts, builder.WithDedupe())
			}
			c := builder.NewConcatBuilder(opts...)

			for _, arg := range args {
				path, offset, err := parseContributionArg(arg)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				sm, err := sourcemap.Decode(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Debugf("adding %s at line offset %d", path, offset)
				c.Add(sm, offset)
			}

			output := sourcemap.Encode(c.IntoSourceMap())
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(output)
				return err
			}
			return os.WriteFile(out, output, 0o644)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: stdout)")
	cmd.Flags().StringVar(&mode, "mode", "", "interning join mode: disjoint or dedupe (default: config value)")
	return cmd
}

func parseContributionArg(arg string) (path string, lineOffset uint32, err error) {
	path, offsetStr, found := strings.Cut(arg, ":")
	if !found {
		return path, 0, nil
	}
	n, err := strconv.ParseUint(offsetStr, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("invalid line offset in %q: %w", arg, err)
	}
	return path, uint32(n), nil
}
