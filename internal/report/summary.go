package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

// Summary holds the figures shown after a run.
type Summary struct {
	Stamp         string
	Window        *sprintwindow.Window
	SnapshotPath  string
	RecordCount   int
	EventCount    int
	WorklogCount  int
	WorklogHours  float64
	BurndownCount int
	Paths         Paths
}

// RenderSummary writes the run summary to the given writer: the sprint
// window, the headline counts, and a table of produced report files.
func RenderSummary(w io.Writer, summary Summary, noColor bool) {
	heading := color.New(color.FgCyan, color.Bold)
	unknown := color.New(color.FgYellow)

	if noColor {
		heading.DisableColor()
		unknown.DisableColor()
	}

	_, _ = heading.Fprintf(w, "Run %s\n", summary.Stamp)

	if summary.Window != nil {
		fmt.Fprintf(w, "Sprint window: %s .. %s",
			summary.Window.Start.Format(snapshot.DateLayout),
			summary.Window.End.Format(snapshot.DateLayout))

		if summary.Window.Label != "" {
			fmt.Fprintf(w, " (%s)", summary.Window.Label)
		}

		fmt.Fprintln(w)
	} else {
		_, _ = unknown.Fprintln(w, "Sprint window: unknown")
	}

	fmt.Fprintf(w, "Snapshot: %s (%s records)\n",
		summary.SnapshotPath, humanize.Comma(int64(summary.RecordCount)))
	fmt.Fprintf(w, "Changes: %s, worklog entries: %s (%.1fh), burndown points: %s\n",
		humanize.Comma(int64(summary.EventCount)),
		humanize.Comma(int64(summary.WorklogCount)),
		summary.WorklogHours,
		humanize.Comma(int64(summary.BurndownCount)))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"report", "path"})
	tbl.AppendRow(table.Row{"snapshot", summary.Paths.Snapshot})
	tbl.AppendRow(table.Row{"events", summary.Paths.Events})
	tbl.AppendRow(table.Row{"worklogs", summary.Paths.Worklogs})
	tbl.AppendRow(table.Row{"worklogs daily", summary.Paths.WorklogsDaily})
	tbl.AppendRow(table.Row{"burndown", summary.Paths.Burndown})

	if summary.Paths.Chart != "" {
		tbl.AppendRow(table.Row{"burndown chart", summary.Paths.Chart})
	} else {
		tbl.AppendRow(table.Row{"burndown chart", "not generated (insufficient data)"})
	}

	tbl.Render()
}
