package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subfit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage recorded runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if runs == nil {
					runs = []history.Run{}
				}
				if handled, err := output.write(cmd, runs); handled || err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderHistoryTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	output.register(cmd)
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run; a unique id prefix is enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if handled, err := output.write(cmd, run); handled || err != nil {
					return err
				}
				printRunDetails(cmd.OutOrStdout(), run)
				return nil
			})
		},
	}

	output.register(cmd)
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = cfg.History.KeepRuns
			}
			if keep < 1 {
				return fmt.Errorf("--keep must be at least 1 (got %d)", keep)
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs (kept newest %d)\n", removed, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "Number of runs to keep (default history.keep_runs)")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}

func printRunDetails(out io.Writer, run history.Run) {
	fields := []struct {
		label string
		value string
	}{
		{"ID", run.ID},
		{"Command", run.Command},
		{"Status", string(run.Status)},
		{"Input", valueOrDash(run.InputPath)},
		{"Output", valueOrDash(run.OutputPath)},
		{"Max width", strconv.Itoa(run.MaxWidth)},
		{"Policy", run.Policy},
		{"Input blocks", strconv.Itoa(run.InputBlocks)},
		{"Output blocks", strconv.Itoa(run.OutputBlocks)},
		{"Skipped blocks", strconv.Itoa(run.SkippedBlocks)},
		{"Started", run.StartedAt.Local().Format(time.RFC3339)},
		{"Finished", run.FinishedAt.Local().Format(time.RFC3339)},
		{"Duration", formatDuration(run.Duration())},
	}
	if run.ErrorKind != "" {
		fields = append(fields,
			struct{ label, value string }{"Error kind", run.ErrorKind},
			struct{ label, value string }{"Error", run.ErrorMessage},
		)
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-15s %s\n", f.label+":", f.value)
	}
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "stdin"
	}
	return filepath.Base(path)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}
