package snapshot

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

func day(yearDay int) time.Time {
	return time.Date(2025, 3, yearDay, 0, 0, 0, 0, time.UTC)
}

func statusSnapshot(date time.Time, status string) Snapshot {
	return Snapshot{
		Date: date,
		Records: []normalize.Record{
			{Key: "PROJ-1", Status: normalize.Some(status)},
		},
		Meta: NewMeta(nil, date),
	}
}

func TestStore_SaveAndLatest(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, store.Save(statusSnapshot(day(3), "Done")))
	require.NoError(t, store.Save(statusSnapshot(day(2), "In Progress")))

	latest, err := store.Latest()

	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, day(3), latest.Date)
	require.Len(t, latest.Records, 1)
	assert.Equal(t, normalize.Some("Done"), latest.Records[0].Status)
}

func TestStore_LatestEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	latest, err := store.Latest()

	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStore_SaveReplacesSameDay(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, store.Save(statusSnapshot(day(1), "Done")))

	history, err := store.History(nil)

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, normalize.Some("Done"), history[0].Records[0].Status)
}

func TestStore_PreviousExcluding(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, store.Save(statusSnapshot(day(2), "Done")))

	previous, err := store.PreviousExcluding(day(2))

	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, day(1), previous.Date)
}

func TestStore_PreviousExcludingOnlyToday(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))

	previous, err := store.PreviousExcluding(day(1))

	require.NoError(t, err)
	assert.Nil(t, previous)
}

func TestStore_HistoryWindowFiltered(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, store.Save(statusSnapshot(day(5), "In Progress")))
	require.NoError(t, store.Save(statusSnapshot(day(20), "Done")))

	window := &sprintwindow.Window{Start: day(1), End: day(10)}

	history, err := store.History(window)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, day(1), history[0].Date)
	assert.Equal(t, day(5), history[1].Date)
}

func TestStore_MetaSidecarRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	window := &sprintwindow.Window{Start: day(1), End: day(14), Label: "Sprint 12 - 0301 > 0314"}
	snap := statusSnapshot(day(2), "To Do")
	snap.Meta = NewMeta(window, day(2))

	require.NoError(t, store.Save(snap))

	loaded, err := store.Latest()

	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Sprint 12 - 0301 > 0314", loaded.Meta.SprintName)
	assert.Equal(t, "2025-03-01", loaded.Meta.SprintStart)
}

func TestStore_MissingSidecarTolerated(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, os.Remove(store.MetaPath(day(1))))

	loaded, err := store.Latest()

	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Meta.SprintName)
}

func TestStore_IgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save(statusSnapshot(day(1), "To Do")))
	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(dir+"/snapshot_garbage.csv", []byte("x"), 0o644))

	history, err := store.History(nil)

	require.NoError(t, err)
	assert.Len(t, history, 1)
}
