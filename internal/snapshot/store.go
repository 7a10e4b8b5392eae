package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

const (
	snapshotPrefix = "snapshot_"
	snapshotSuffix = ".csv"
	metaSuffix     = ".meta.yaml"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Store keeps one snapshot CSV plus a YAML metadata sidecar per day in a
// single directory. Lookups are read-only; Save replaces a day's snapshot
// wholesale via write-to-temp-and-rename.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot CSV path for the given date.
func (s *Store) Path(date time.Time) string {
	return filepath.Join(s.dir, snapshotPrefix+date.Format(DateLayout)+snapshotSuffix)
}

// MetaPath returns the metadata sidecar path for the given date.
func (s *Store) MetaPath(date time.Time) string {
	return filepath.Join(s.dir, snapshotPrefix+date.Format(DateLayout)+metaSuffix)
}

// Save persists the snapshot keyed by its date, overwriting any existing
// snapshot for that day.
func (s *Store) Save(snap Snapshot) error {
	err := os.MkdirAll(s.dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer

	err = EncodeRecords(&buf, snap.Records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = replaceFile(s.Path(snap.Date), buf.Bytes())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	metaBytes, err := yaml.Marshal(snap.Meta)
	if err != nil {
		return fmt.Errorf("encode snapshot meta: %w", err)
	}

	err = replaceFile(s.MetaPath(snap.Date), metaBytes)
	if err != nil {
		return fmt.Errorf("save snapshot meta: %w", err)
	}

	return nil
}

// Latest returns the most recently dated snapshot, or nil when the store
// is empty.
func (s *Store) Latest() (*Snapshot, error) {
	dates, err := s.dates()
	if err != nil || len(dates) == 0 {
		return nil, err
	}

	return s.load(dates[len(dates)-1])
}

// PreviousExcluding returns the most recently dated snapshot whose date
// differs from the given one. This fetches "yesterday" even when today's
// snapshot has already been written.
func (s *Store) PreviousExcluding(date time.Time) (*Snapshot, error) {
	dates, err := s.dates()
	if err != nil {
		return nil, err
	}

	excluded := date.Format(DateLayout)

	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i].Format(DateLayout) != excluded {
			return s.load(dates[i])
		}
	}

	return nil, nil
}

// History returns all stored snapshots ordered by date ascending. When a
// window is given, snapshots outside it are dropped.
func (s *Store) History(window *sprintwindow.Window) ([]Snapshot, error) {
	dates, err := s.dates()
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(dates))

	for _, date := range dates {
		if window != nil && !window.Contains(date) {
			continue
		}

		snap, loadErr := s.load(date)
		if loadErr != nil {
			return nil, loadErr
		}

		snapshots = append(snapshots, *snap)
	}

	return snapshots, nil
}

// dates lists stored snapshot dates in ascending order. A missing store
// directory reads as empty.
func (s *Store) dates() ([]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var dates []time.Time

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)

		date, parseErr := time.ParseInLocation(DateLayout, stamp, time.UTC)
		if parseErr != nil {
			continue
		}

		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

func (s *Store) load(date time.Time) (*Snapshot, error) {
	file, err := os.Open(s.Path(date))
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	records, err := DecodeRecords(file)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Date: date, Records: records}

	// The sidecar is best-effort; a snapshot without one still loads.
	metaBytes, metaErr := os.ReadFile(s.MetaPath(date))
	if metaErr == nil {
		_ = yaml.Unmarshal(metaBytes, &snap.Meta)
	}

	return snap, nil
}

// replaceFile writes content to a temporary file in the target directory
// and renames it into place, giving whole-file replace semantics.
func replaceFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())

		if writeErr != nil {
			return fmt.Errorf("write temp file: %w", writeErr)
		}

		return fmt.Errorf("close temp file: %w", closeErr)
	}

	err = os.Chmod(tmp.Name(), filePerm)
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("chmod temp file: %w", err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
