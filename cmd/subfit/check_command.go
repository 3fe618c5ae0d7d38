package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subfit/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var network bool
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, ffmpeg and transcription settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Network: network})

			handled, err := output.write(cmd, results)
			if err != nil {
				return err
			}
			if !handled {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range preflightLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&network, "network", false, "Also probe the transcription endpoint")
	output.register(cmd)
	return cmd
}
