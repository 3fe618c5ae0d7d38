package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subfit/internal/fileutil"
	"subfit/internal/preflight"
	"subfit/internal/services"
)

func newBurnCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "burn <video> <subtitles.srt>",
		Short: "Burn subtitles into a copy of a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.track(cmd, "burn", nil, func(runCtx context.Context, p *pipeline) error {
				if err := preflight.Require(p.cfg, preflight.CheckFFmpeg); err != nil {
					return err
				}
				video, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				subtitles, err := resolvePath(args[1])
				if err != nil {
					return err
				}
				p.run.InputPath = video

				target, err := burnTarget(p, video, outputPath)
				if err != nil {
					return err
				}
				if err := p.mediaTool().BurnSubtitles(services.WithStage(runCtx, "burn"), video, subtitles, target); err != nil {
					return err
				}
				p.run.OutputPath = target
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Video file to write (default <video><burn_suffix><ext>)")
	return cmd
}

func burnTarget(p *pipeline, video, outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		return fileutil.SiblingPath(video, p.cfg.Media.BurnSuffix, ""), nil
	}
	return resolvePath(outputPath)
}
