// Package pipeline orchestrates one processing run: normalize the export,
// persist today's snapshot, diff against the previous day, extract
// worklogs, and build the burndown series and reports.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
	"github.com/Sumatoshi-tech/sprintfang/internal/delta"
	"github.com/Sumatoshi-tech/sprintfang/internal/export"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
	"github.com/Sumatoshi-tech/sprintfang/internal/report"
	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
	"github.com/Sumatoshi-tech/sprintfang/internal/worklog"
)

// Data directory layout.
const (
	SnapshotSubdir = "snapshots"
	ReportSubdir   = "reports"
	UploadSubdir   = "uploads"

	dirPerm = 0o755
)

// Options configures one pipeline run.
type Options struct {
	// CSVPath is the raw export to process.
	CSVPath string

	// DataDir is the data root holding snapshots and reports.
	DataDir string

	// Today is the run's as-of date; snapshot identity is this calendar day.
	Today time.Time

	// Window, when non-nil, bypasses sprint window inference.
	Window *sprintwindow.Window

	// Done classifies statuses as work complete for the burndown sum.
	// Nil selects the default done-like set.
	Done burndown.StatusSet

	// Logger receives run progress. Nil selects slog.Default().
	Logger *slog.Logger
}

// Result collects everything one run produced.
type Result struct {
	Stamp        string
	Window       *sprintwindow.Window
	SnapshotPath string
	Records      []normalize.Record
	Events       []delta.Event
	Worklogs     []worklog.Entry
	DailyTotals  []worklog.DailyTotal
	Burndown     []burndown.Point
	Paths        report.Paths
}

// Summary converts the result into the console summary model.
func (r *Result) Summary() report.Summary {
	hours := 0.0
	for _, entry := range r.Worklogs {
		hours += entry.Hours()
	}

	return report.Summary{
		Stamp:         r.Stamp,
		Window:        r.Window,
		SnapshotPath:  r.SnapshotPath,
		RecordCount:   len(r.Records),
		EventCount:    len(r.Events),
		WorklogCount:  len(r.Worklogs),
		WorklogHours:  hours,
		BurndownCount: len(r.Burndown),
		Paths:         r.Paths,
	}
}

// Run executes one processing run. Only reading the export and writing
// outputs can fail; per-row and pattern-level problems degrade to absent
// values or empty sub-results.
func Run(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	snapDir := filepath.Join(opts.DataDir, SnapshotSubdir)
	reportDir := filepath.Join(opts.DataDir, ReportSubdir)

	err := os.MkdirAll(snapDir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	err = os.MkdirAll(reportDir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	table, err := export.Load(opts.CSVPath)
	if err != nil {
		return nil, err
	}

	today := sprintwindow.Day(opts.Today)
	stamp := today.Format(snapshot.DateLayout)

	records := normalize.Normalize(table, export.ResolveMapping(table.Header))

	window := opts.Window
	if window == nil {
		if inferred, found := sprintwindow.Parse(table, today.Year()); found {
			window = &inferred
		}
	}

	if window != nil {
		logger.Info("sprint window resolved",
			"start", window.Start.Format(snapshot.DateLayout),
			"end", window.End.Format(snapshot.DateLayout),
			"label", window.Label)
	} else {
		logger.Info("no sprint window found; filtering disabled")
	}

	store := snapshot.NewStore(snapDir)

	snap := snapshot.Snapshot{
		Date:    today,
		Records: records,
		Meta:    snapshot.NewMeta(window, today),
	}

	err = store.Save(snap)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Stamp:        stamp,
		Window:       window,
		SnapshotPath: store.Path(today),
		Records:      records,
	}

	// Diff against the most recent prior day; a same-day rerun still
	// compares against yesterday, not against its own first run.
	previous, err := store.PreviousExcluding(today)
	if err != nil {
		return nil, err
	}

	if previous != nil {
		result.Events = delta.Diff(previous.Records, records, today)
	} else {
		logger.Info("no prior snapshot; change log is empty")
	}

	result.Worklogs = worklog.Extract(table, window)
	result.DailyTotals = worklog.DailyTotals(result.Worklogs)

	done := opts.Done
	if done == nil {
		done = burndown.NewStatusSet(burndown.DefaultDoneStatuses)
	}

	history, err := store.History(nil)
	if err != nil {
		return nil, err
	}

	result.Burndown = burndown.Series(history, window, done)

	err = writeReports(reportDir, stamp, result, window, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("run completed",
		"records", len(result.Records),
		"events", len(result.Events),
		"worklogs", len(result.Worklogs),
		"burndown_points", len(result.Burndown))

	return result, nil
}

func writeReports(
	reportDir, stamp string,
	result *Result,
	window *sprintwindow.Window,
	logger *slog.Logger,
) error {
	writer := report.NewWriter(reportDir, stamp)

	var err error

	result.Paths.Snapshot, err = writer.WriteSnapshot(result.Records)
	if err != nil {
		return err
	}

	result.Paths.Events, err = writer.WriteEvents(result.Events)
	if err != nil {
		return err
	}

	result.Paths.Worklogs, err = writer.WriteWorklogs(result.Worklogs)
	if err != nil {
		return err
	}

	result.Paths.WorklogsDaily, err = writer.WriteDailyTotals(result.DailyTotals)
	if err != nil {
		return err
	}

	result.Paths.Burndown, err = writer.WriteBurndown(result.Burndown)
	if err != nil {
		return err
	}

	// The chart needs both a window and at least one actual point.
	if window == nil || len(result.Burndown) == 0 {
		logger.Info("burndown chart skipped", "reason", "insufficient data")

		return nil
	}

	chartPath := writer.ChartPath()

	file, err := os.Create(chartPath)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", chartPath, err)
	}
	defer file.Close()

	err = burndown.RenderChart(file, result.Burndown, *window)
	if err != nil {
		return err
	}

	result.Paths.Chart = chartPath

	return nil
}
