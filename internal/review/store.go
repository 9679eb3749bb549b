// Package review implements the collaborative working-copy store for
// per-date candidate tables.
//
// Each date directory under the data root holds an immutable source table
// produced by the upstream pipeline. The first request for a date copies it
// to a working snapshot ("candidate-final-<date>-<HHMMSS>.csv") that all
// reviewer annotations are written into. The source keeps growing; the
// snapshot is the sole owner of durable annotation state.
package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/surveyops/candreview/internal/fs"
	"github.com/surveyops/candreview/internal/table"
)

// Snapshot file naming.
const (
	snapshotPrefix = "candidate-final-"
	snapshotExt    = ".csv"
	snapshotPerms  = 0o644
	stampLayout    = "150405" // HHMMSS
)

var datePattern = regexp.MustCompile(`^\d{8}$`)

// Store is the collaborative working-copy store. All snapshot mutation for a
// given date serializes on that date's lock; different dates proceed in
// parallel. Safe for concurrent use.
type Store struct {
	fsys fs.FS
	cfg  Config

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex

	// now is injectable for deterministic snapshot names in tests.
	now func() time.Time
}

// New creates a Store over the given filesystem and configuration.
func New(fsys fs.FS, cfg Config) *Store {
	return &Store{
		fsys:      fsys,
		cfg:       cfg,
		dateLocks: make(map[string]*sync.Mutex),
		now:       time.Now,
	}
}

// Config returns the store's configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// dateDir returns the directory for a date's data.
func (s *Store) dateDir(date string) string {
	return filepath.Join(s.cfg.DataRoot, date)
}

// sourcePath returns the immutable source table path for a date.
func (s *Store) sourcePath(date string) string {
	return filepath.Join(s.dateDir(date), s.cfg.DataFile)
}

// dateLock returns the mutex serializing all mutation for one date.
func (s *Store) dateLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lk, ok := s.dateLocks[date]
	if !ok {
		lk = &sync.Mutex{}
		s.dateLocks[date] = lk
	}

	return lk
}

// withDateLock runs fn while holding the date's in-process mutex plus a
// cross-process flock scoped to the date's source path. The flock matters
// when two candreview processes target the same data root.
func (s *Store) withDateLock(date string, fn func() error) error {
	lk := s.dateLock(date)
	lk.Lock()
	defer lk.Unlock()

	flock, err := s.fsys.Lock(s.sourcePath(date))
	if err != nil {
		return fmt.Errorf("lock date %s: %w", date, err)
	}
	defer flock.Close()

	return fn()
}

func validateDate(date string) error {
	if !datePattern.MatchString(date) {
		return ErrBadDate
	}

	return nil
}

// Snapshot resolves the working snapshot for a date, creating it from the
// source table if this is the date's first request. Returns the snapshot
// path. Creation happens at most once: subsequent calls return the existing
// file.
//
// The source table must exist even when a snapshot already does: a date
// whose source has vanished is an upstream fault that gets surfaced, not
// papered over with the stale working copy.
func (s *Store) Snapshot(ctx context.Context, date string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", dateErr(date, err)
	}

	if err := validateDate(date); err != nil {
		return "", dateErr(date, err)
	}

	// Checked ahead of the snapshot lookup, and before taking the date
	// lock so that requests for dates with no source data never leave
	// lock files behind.
	exists, err := s.fsys.Exists(s.sourcePath(date))
	if err != nil {
		return "", dateErr(date, fmt.Errorf("stat source table: %w", err))
	}

	if !exists {
		return "", dateErr(date, ErrSourceNotFound)
	}

	// Fast path: an existing snapshot needs no lock.
	path, ok, err := s.findSnapshot(date)
	if err != nil {
		return "", dateErr(date, err)
	}

	if ok {
		return path, nil
	}

	err = s.withDateLock(date, func() error {
		path, err = s.resolveOrCreateLocked(date)

		return err
	})
	if err != nil {
		return "", dateErr(date, err)
	}

	return path, nil
}

// Reset discards the date's annotation history: every matching snapshot file
// is deleted, then a fresh copy of the source table is created.
func (s *Store) Reset(ctx context.Context, date string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", dateErr(date, err)
	}

	if err := validateDate(date); err != nil {
		return "", dateErr(date, err)
	}

	dirExists, err := s.fsys.Exists(s.dateDir(date))
	if err != nil {
		return "", dateErr(date, fmt.Errorf("stat date directory: %w", err))
	}

	if !dirExists {
		return "", dateErr(date, ErrSourceNotFound)
	}

	var path string

	err = s.withDateLock(date, func() error {
		entries, err := s.fsys.ReadDir(s.dateDir(date))
		if err != nil {
			return fmt.Errorf("read date directory: %w", err)
		}

		for _, entry := range entries {
			if !isSnapshotName(entry.Name(), date) {
				continue
			}

			err = s.fsys.Remove(filepath.Join(s.dateDir(date), entry.Name()))
			if err != nil {
				return fmt.Errorf("remove old snapshot: %w", err)
			}
		}

		path, err = s.resolveOrCreateLocked(date)

		return err
	})
	if err != nil {
		return "", dateErr(date, err)
	}

	return path, nil
}

// resolveOrCreateLocked performs the check-then-create sequence. Caller must
// hold the date lock: the re-check under the lock is what guarantees at most
// one snapshot file per date even under concurrent first requests.
func (s *Store) resolveOrCreateLocked(date string) (string, error) {
	// Source existence comes first, same as in [Store.Snapshot]: an
	// existing snapshot never hides a missing source.
	src := s.sourcePath(date)

	exists, err := s.fsys.Exists(src)
	if err != nil {
		return "", fmt.Errorf("stat source table: %w", err)
	}

	if !exists {
		return "", ErrSourceNotFound
	}

	path, ok, err := s.findSnapshot(date)
	if err != nil {
		return "", err
	}

	if ok {
		return path, nil
	}

	data, err := s.fsys.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read source table: %w", err)
	}

	name := snapshotPrefix + date + "-" + s.now().Format(stampLayout) + snapshotExt
	path = filepath.Join(s.dateDir(date), name)

	err = s.fsys.WriteFileAtomic(path, data, snapshotPerms)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}

	return path, nil
}

// findSnapshot scans the date directory for an existing working snapshot.
// Should more than one exist (which correct operation prevents), the first
// in name order wins; duplicates are tolerated, never fatal.
func (s *Store) findSnapshot(date string) (string, bool, error) {
	entries, err := s.fsys.ReadDir(s.dateDir(date))
	if err != nil {
		// A missing date directory means no snapshot; source existence
		// is checked separately so the caller gets ErrSourceNotFound.
		ok, existsErr := s.fsys.Exists(s.dateDir(date))
		if existsErr == nil && !ok {
			return "", false, nil
		}

		return "", false, fmt.Errorf("read date directory: %w", err)
	}

	var matches []string

	for _, entry := range entries {
		if isSnapshotName(entry.Name(), date) {
			matches = append(matches, entry.Name())
		}
	}

	if len(matches) == 0 {
		return "", false, nil
	}

	sort.Strings(matches)

	return filepath.Join(s.dateDir(date), matches[0]), true, nil
}

func isSnapshotName(name, date string) bool {
	return strings.HasPrefix(name, snapshotPrefix+date+"-") && strings.HasSuffix(name, snapshotExt)
}

// loadSnapshotLocked resolves the date's snapshot (creating it if needed)
// and parses it. Caller must hold the date lock.
func (s *Store) loadSnapshotLocked(date string) (string, *table.Table, error) {
	path, err := s.resolveOrCreateLocked(date)
	if err != nil {
		return "", nil, err
	}

	tbl, err := s.readTable(path)
	if err != nil {
		return "", nil, err
	}

	return path, tbl, nil
}

// loadSnapshotShared resolves the date's snapshot and parses it without
// holding the date lock. Creation, if this is the date's first request,
// still goes through [Store.Snapshot] and therefore through the lock.
func (s *Store) loadSnapshotShared(ctx context.Context, date string) (string, *table.Table, error) {
	path, err := s.Snapshot(ctx, date)
	if err != nil {
		return "", nil, err
	}

	tbl, err := s.readTable(path)
	if err != nil {
		return "", nil, err
	}

	return path, tbl, nil
}

// readTable reads and parses one snapshot file, mapping header problems to
// [ErrSnapshotCorrupt].
func (s *Store) readTable(path string) (*table.Table, error) {
	data, err := s.fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	tbl, err := table.ReadCSVBytes(data)
	if err != nil {
		if errors.Is(err, table.ErrEmptyHeader) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupt, filepath.Base(path))
		}

		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	return tbl, nil
}

// saveSnapshot persists a mutated table back to its snapshot file.
func (s *Store) saveSnapshot(path string, tbl *table.Table) error {
	data, err := tbl.EncodeCSV()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = s.fsys.WriteFileAtomic(path, data, snapshotPerms)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}
