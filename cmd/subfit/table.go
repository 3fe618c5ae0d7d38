package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subfit/internal/history"
)

// historyColumns lists the history list columns in display order. Counts and
// durations are right aligned so they line up across runs.
var historyColumns = []struct {
	title string
	align text.Align
}{
	{"ID", text.AlignLeft},
	{"Command", text.AlignLeft},
	{"Status", text.AlignLeft},
	{"Input", text.AlignLeft},
	{"Blocks", text.AlignRight},
	{"Width", text.AlignRight},
	{"Started", text.AlignLeft},
	{"Duration", text.AlignRight},
}

// renderHistoryTable formats runs newest first, as returned by the store.
func renderHistoryTable(runs []history.Run) string {
	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, 0, len(historyColumns))
	configs := make([]table.ColumnConfig, 0, len(historyColumns))
	for i, col := range historyColumns {
		header = append(header, col.title)
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, run := range runs {
		tw.AppendRow(historyRow(run))
	}
	tw.AppendFooter(table.Row{"", "", "", pluralRuns(len(runs))})

	return tw.Render() + "\n"
}

func historyRow(run history.Run) table.Row {
	return table.Row{
		run.ShortID(),
		run.Command,
		string(run.Status),
		displayPath(run.InputPath),
		fmt.Sprintf("%d→%d", run.InputBlocks, run.OutputBlocks),
		strconv.Itoa(run.MaxWidth),
		run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		formatDuration(run.Duration()),
	}
}

func pluralRuns(n int) string {
	if n == 1 {
		return "1 run"
	}
	return fmt.Sprintf("%d runs", n)
}
