package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subfit/internal/export"
	"subfit/internal/resegment"
	"subfit/internal/services"
)

func newResegmentCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var formatFlag string
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "resegment [input.srt|-]",
		Short: "Split captions into single-line blocks no wider than max-width",
		Long: "Reads an SRT (or WebVTT) document, wraps every caption to the configured width\n" +
			"and emits one block per line with the source duration divided evenly.\n" +
			"Reads stdin when the input is '-' or omitted and writes stdout unless --output is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = strings.TrimSpace(args[0])
			}
			return ctx.track(cmd, "resegment", &flags, func(runCtx context.Context, p *pipeline) error {
				return resegmentInput(runCtx, cmd, p, input, outputPath, formatFlag)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: srt or vtt (default inferred from --output)")
	flags.register(cmd)
	return cmd
}

func resegmentInput(ctx context.Context, cmd *cobra.Command, p *pipeline, input, outputPath, formatFlag string) error {
	format := export.FormatSRT
	toStdout := outputPath == "" || outputPath == "-"
	if !toStdout {
		path, err := resolvePath(outputPath)
		if err != nil {
			return err
		}
		outputPath = path
		format = export.FormatForPath(outputPath)
	}
	if strings.TrimSpace(formatFlag) != "" {
		parsed, err := export.ParseFormat(formatFlag)
		if err != nil {
			return services.Wrap(services.ErrValidation, "resegment", "format", "", err)
		}
		format = parsed
	}

	result, err := readAndResegment(ctx, cmd.InOrStdin(), p, input)
	if err != nil {
		return err
	}

	if toStdout {
		if err := export.Write(cmd.OutOrStdout(), result.Document, format); err != nil {
			return services.Wrap(services.ErrExternalTool, "write", "stdout", "", err)
		}
		return nil
	}
	if err := p.writeDocument(ctx, outputPath, result.Document, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d captions (from %d) to %s\n",
		result.Stats.OutputBlocks, result.Stats.InputBlocks, outputPath)
	return nil
}

func readAndResegment(ctx context.Context, stdin io.Reader, p *pipeline, input string) (resegment.Result, error) {
	if input == "" || input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return resegment.Result{}, services.Wrap(services.ErrValidation, "resegment", "read stdin", "", err)
		}
		return p.resegment(ctx, string(data), "stdin")
	}

	path, err := resolvePath(input)
	if err != nil {
		return resegment.Result{}, err
	}
	p.run.InputPath = path
	data, err := os.ReadFile(path)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return resegment.Result{}, services.Wrap(marker, "resegment", "read input", "", err)
	}

	if export.FormatForPath(path) == export.FormatWebVTT {
		doc, err := export.ReadWebVTT(strings.NewReader(string(data)))
		if err != nil {
			return resegment.Result{}, services.Wrap(services.ErrValidation, "resegment", "parse", path, err)
		}
		return p.resegmentDocument(ctx, doc), nil
	}
	return p.resegment(ctx, string(data), path)
}
