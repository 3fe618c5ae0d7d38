package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subfit/internal/export"
	"subfit/internal/fileutil"
	"subfit/internal/preflight"
	"subfit/internal/services"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var formatFlag string
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "transcribe <media>",
		Short: "Transcribe a media file and write resegmented captions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.track(cmd, "transcribe", &flags, func(runCtx context.Context, p *pipeline) error {
				if err := preflight.Require(p.cfg, preflight.CheckFFmpeg, preflight.CheckAPIKey); err != nil {
					return err
				}
				mediaPath, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				p.run.InputPath = mediaPath

				format := export.FormatSRT
				if strings.TrimSpace(formatFlag) != "" {
					if format, err = export.ParseFormat(formatFlag); err != nil {
						return services.Wrap(services.ErrValidation, "transcribe", "format", "", err)
					}
				}
				target := fileutil.SiblingPath(mediaPath, "", format.Extension())
				if strings.TrimSpace(outputPath) != "" {
					if target, err = resolvePath(outputPath); err != nil {
						return err
					}
					if strings.TrimSpace(formatFlag) == "" {
						format = export.FormatForPath(target)
					}
				}

				result, err := p.transcribe(runCtx, mediaPath, p.mediaTool(), p.transcriber())
				if err != nil {
					return err
				}
				if err := p.writeDocument(runCtx, target, result.Document, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d captions to %s\n", result.Stats.OutputBlocks, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Caption file to write (default <media>.srt)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: srt or vtt")
	flags.register(cmd)
	return cmd
}
