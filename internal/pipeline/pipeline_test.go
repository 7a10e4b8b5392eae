package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sprintfang/internal/delta"
	"github.com/Sumatoshi-tech/sprintfang/internal/export"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
)

const exportHeader = "Issue key,Summary,Status,Story Points,Sprint,Worklog Date,Worklog Time Spent,Worklog Author\n"

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRun_FirstRunProducesSnapshotAndReports(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	csvPath := writeExport(t, dir, "export.csv", exportHeader+
		"PROJ-1,Fix login,To Do,5,Sprint 12 - 0301 > 0314,2025-03-02,3h 30m,alice\n"+
		"PROJ-2,Add metrics,Done,3,Sprint 12 - 0301 > 0314,,,\n")

	result, err := Run(Options{
		CSVPath: csvPath,
		DataDir: filepath.Join(dir, "data"),
		Today:   day(2),
		Logger:  quietLogger(),
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", result.Stamp)
	assert.Len(t, result.Records, 2)
	assert.Empty(t, result.Events)

	require.NotNil(t, result.Window)
	assert.Equal(t, day(1), result.Window.Start)
	assert.Equal(t, day(14), result.Window.End)

	require.Len(t, result.Worklogs, 1)
	assert.InEpsilon(t, 12600.0, result.Worklogs[0].Seconds, 1e-9)
	require.Len(t, result.DailyTotals, 1)

	require.Len(t, result.Burndown, 1)
	assert.InEpsilon(t, 5.0, result.Burndown[0].Remaining, 1e-9)

	assert.FileExists(t, result.SnapshotPath)
	assert.FileExists(t, result.Paths.Snapshot)
	assert.FileExists(t, result.Paths.Events)
	assert.FileExists(t, result.Paths.Worklogs)
	assert.FileExists(t, result.Paths.WorklogsDaily)
	assert.FileExists(t, result.Paths.Burndown)
	assert.FileExists(t, result.Paths.Chart)
}

func TestRun_SecondDayDiffsAgainstPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	dayOne := writeExport(t, dir, "day1.csv", exportHeader+
		"PROJ-1,Fix login,To Do,5,Sprint 12 - 0301 > 0314,,,\n")
	dayTwo := writeExport(t, dir, "day2.csv", exportHeader+
		"PROJ-1,Fix login,Done,5,Sprint 12 - 0301 > 0314,,,\n")

	_, err := Run(Options{CSVPath: dayOne, DataDir: dataDir, Today: day(2), Logger: quietLogger()})
	require.NoError(t, err)

	result, err := Run(Options{CSVPath: dayTwo, DataDir: dataDir, Today: day(3), Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, result.Events, 1)
	assert.Equal(t, export.FieldStatus, result.Events[0].Field)
	assert.Equal(t, "To Do", result.Events[0].Old)
	assert.Equal(t, "Done", result.Events[0].New)

	// Two snapshot days, two burndown points: done work drops to zero.
	require.Len(t, result.Burndown, 2)
	assert.InEpsilon(t, 5.0, result.Burndown[0].Remaining, 1e-9)
	assert.Zero(t, result.Burndown[1].Remaining)
}

func TestRun_SameDayRerunIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	csvPath := writeExport(t, dir, "export.csv", exportHeader+
		"PROJ-1,Fix login,To Do,5,Sprint 12 - 0301 > 0314,,,\n")

	first, err := Run(Options{CSVPath: csvPath, DataDir: dataDir, Today: day(2), Logger: quietLogger()})
	require.NoError(t, err)

	second, err := Run(Options{CSVPath: csvPath, DataDir: dataDir, Today: day(2), Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, first.SnapshotPath, second.SnapshotPath)
	assert.Empty(t, second.Events)
	assert.Equal(t, first.Burndown, second.Burndown)

	entries, err := os.ReadDir(filepath.Join(dataDir, SnapshotSubdir))
	require.NoError(t, err)
	assert.Len(t, entries, 2) // one csv plus one meta sidecar
}

func TestRun_SameDayRerunDiffsAgainstPriorDay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	dayOne := writeExport(t, dir, "day1.csv", exportHeader+
		"PROJ-1,Fix login,To Do,5,,,,\n")
	dayTwoA := writeExport(t, dir, "day2a.csv", exportHeader+
		"PROJ-1,Fix login,In Progress,5,,,,\n")
	dayTwoB := writeExport(t, dir, "day2b.csv", exportHeader+
		"PROJ-1,Fix login,Done,5,,,,\n")

	_, err := Run(Options{CSVPath: dayOne, DataDir: dataDir, Today: day(2), Logger: quietLogger()})
	require.NoError(t, err)

	_, err = Run(Options{CSVPath: dayTwoA, DataDir: dataDir, Today: day(3), Logger: quietLogger()})
	require.NoError(t, err)

	result, err := Run(Options{CSVPath: dayTwoB, DataDir: dataDir, Today: day(3), Logger: quietLogger()})
	require.NoError(t, err)

	// The rerun compares against day one, not its own first attempt.
	require.Len(t, result.Events, 1)
	assert.Equal(t, "To Do", result.Events[0].Old)
	assert.Equal(t, "Done", result.Events[0].New)
}

func TestRun_AddAndRemoveIssues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	dayOne := writeExport(t, dir, "day1.csv", exportHeader+
		"PROJ-1,Fix login,To Do,5,,,,\n")
	dayTwo := writeExport(t, dir, "day2.csv", exportHeader+
		"PROJ-2,Add metrics,To Do,3,,,,\n")

	_, err := Run(Options{CSVPath: dayOne, DataDir: dataDir, Today: day(2), Logger: quietLogger()})
	require.NoError(t, err)

	result, err := Run(Options{CSVPath: dayTwo, DataDir: dataDir, Today: day(3), Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, result.Events, 2)
	assert.Equal(t, delta.FieldIssueRemoved, result.Events[0].Field)
	assert.Equal(t, "PROJ-1", result.Events[0].IssueKey)
	assert.Equal(t, delta.FieldIssueAdded, result.Events[1].Field)
	assert.Equal(t, "PROJ-2", result.Events[1].IssueKey)
}

func TestRun_NoWindowSkipsChart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	csvPath := writeExport(t, dir, "export.csv",
		"Issue key,Status,Story Points\nPROJ-1,To Do,5\n")

	result, err := Run(Options{
		CSVPath: csvPath,
		DataDir: filepath.Join(dir, "data"),
		Today:   day(2),
		Logger:  quietLogger(),
	})

	require.NoError(t, err)
	assert.Nil(t, result.Window)
	assert.Empty(t, result.Paths.Chart)

	// Tables are still written, header-only where empty.
	assert.FileExists(t, result.Paths.Events)
	assert.FileExists(t, result.Paths.Burndown)
}

func TestRun_MissingExportFails(t *testing.T) {
	t.Parallel()

	_, err := Run(Options{
		CSVPath: filepath.Join(t.TempDir(), "absent.csv"),
		DataDir: t.TempDir(),
		Today:   day(2),
		Logger:  quietLogger(),
	})

	assert.Error(t, err)
}

func TestResult_Summary(t *testing.T) {
	t.Parallel()

	result := &Result{
		Stamp:   "2025-03-05",
		Records: make([]normalize.Record, 4),
	}

	summary := result.Summary()

	assert.Equal(t, "2025-03-05", summary.Stamp)
	assert.Equal(t, 4, summary.RecordCount)
	assert.Zero(t, summary.WorklogHours)
}
