// Package commands implements CLI command handlers for sprintfang.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/pipeline"
	"github.com/Sumatoshi-tech/sprintfang/internal/report"
	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

var (
	// ErrInputNotFound indicates the export path does not exist or is unreadable.
	ErrInputNotFound = errors.New("export file not found")
	// ErrBadDate indicates an override date that is not YYYY-MM-DD.
	ErrBadDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrPartialWindow indicates only one of --sprint-start/--sprint-end was given.
	ErrPartialWindow = errors.New("--sprint-start and --sprint-end must be given together")
)

// RunCommand holds flags for the run command.
type RunCommand struct {
	csvPath     string
	dataDir     string
	today       string
	sprintStart string
	sprintEnd   string
	configPath  string
	noColor     bool
	silent      bool
}

// NewRunCommand creates the run command: process one export into snapshot,
// change log, worklog, and burndown reports.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a tracker CSV export",
		Long: "Process a tracker CSV export: store today's snapshot, diff against the\n" +
			"previous day, extract worklogs, and build the burndown series.",
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.csvPath, "csv", "", "Path to the tracker CSV export (required)")
	cmd.Flags().StringVar(&rc.dataDir, "data-dir", "", "Data directory root (default from config)")
	cmd.Flags().StringVar(&rc.today, "today", "", "Override the as-of date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&rc.sprintStart, "sprint-start", "", "Explicit sprint start, YYYY-MM-DD (bypasses label parsing)")
	cmd.Flags().StringVar(&rc.sprintEnd, "sprint-end", "", "Explicit sprint end, YYYY-MM-DD (bypasses label parsing)")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path (default: .sprintfang.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colored summary output")
	cmd.Flags().BoolVar(&rc.silent, "silent", false, "Suppress the run summary")

	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	dataDir := rc.dataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	today, err := rc.resolveToday()
	if err != nil {
		return err
	}

	window, err := rc.resolveWindow()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(rc.csvPath); statErr != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, rc.csvPath)
	}

	logger := slog.New(observability.NewTracingHandler(
		slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: observability.ParseLogLevel(cfg.Log.Level),
		})))

	result, err := pipeline.Run(pipeline.Options{
		CSVPath: rc.csvPath,
		DataDir: dataDir,
		Today:   today,
		Window:  window,
		Done:    burndown.NewStatusSet(cfg.DoneStatuses),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if !rc.silent {
		report.RenderSummary(cmd.OutOrStdout(), result.Summary(), rc.noColor)
	}

	return nil
}

func (rc *RunCommand) resolveToday() (time.Time, error) {
	if rc.today == "" {
		return time.Now(), nil
	}

	today, err := time.ParseInLocation(snapshot.DateLayout, rc.today, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrBadDate, rc.today)
	}

	return today, nil
}

// resolveWindow builds an explicit sprint window from flags, or nil when
// the window should be inferred from the export.
func (rc *RunCommand) resolveWindow() (*sprintwindow.Window, error) {
	if rc.sprintStart == "" && rc.sprintEnd == "" {
		return nil, nil
	}

	if rc.sprintStart == "" || rc.sprintEnd == "" {
		return nil, ErrPartialWindow
	}

	start, err := time.ParseInLocation(snapshot.DateLayout, rc.sprintStart, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadDate, rc.sprintStart)
	}

	end, err := time.ParseInLocation(snapshot.DateLayout, rc.sprintEnd, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadDate, rc.sprintEnd)
	}

	return &sprintwindow.Window{Start: start, End: end}, nil
}
