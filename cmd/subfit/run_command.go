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

func newRunCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var subtitlesPath string
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Transcribe, resegment and burn captions into a video",
		Long: "Runs the full flow: extract audio, transcribe it, resegment the captions,\n" +
			"save them next to the video and burn them into a copy of it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.track(cmd, "run", &flags, func(runCtx context.Context, p *pipeline) error {
				if err := preflight.Require(p.cfg, preflight.CheckFFmpeg, preflight.CheckAPIKey); err != nil {
					return err
				}
				video, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				p.run.InputPath = video

				captions := fileutil.SiblingPath(video, "", ".srt")
				if strings.TrimSpace(subtitlesPath) != "" {
					if captions, err = resolvePath(subtitlesPath); err != nil {
						return err
					}
				}
				target, err := burnTarget(p, video, outputPath)
				if err != nil {
					return err
				}

				tool := p.mediaTool()
				result, err := p.transcribe(runCtx, video, tool, p.transcriber())
				if err != nil {
					return err
				}
				if err := p.writeDocument(runCtx, captions, result.Document, export.FormatSRT); err != nil {
					return err
				}
				if err := tool.BurnSubtitles(services.WithStage(runCtx, "burn"), video, captions, target); err != nil {
					return err
				}
				p.run.OutputPath = target

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wrote %d captions to %s\n", result.Stats.OutputBlocks, captions)
				fmt.Fprintf(out, "Wrote %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Video file to write (default <video><burn_suffix><ext>)")
	cmd.Flags().StringVar(&subtitlesPath, "subtitles", "", "Where to save the generated captions (default <video>.srt)")
	flags.register(cmd)
	return cmd
}
