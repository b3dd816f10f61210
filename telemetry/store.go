package telemetry

import (
	"database/sql"
	"fmt"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tebeka/atexit"
)

// Store persists Recorder snapshots to a sqlite database, one row per
// run, following the akita tracing package's SQLiteTraceWriter shape:
// open on construction, register an atexit flush, batch nothing (a run
// history table is small enough to write eagerly).
type Store struct {
	db        *sql.DB
	path      string
	statement *sql.Stmt
}

// OpenStore opens (creating if necessary) the sqlite database at path
// and prepares the runs table. If recorder is non-nil, it registers an
// atexit hook that flushes the recorder's final snapshot when atexit.Exit
// runs the registered handlers — pass nil for read-only use (e.g. listing
// past runs).
func OpenStore(path string, recorder *Recorder) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path}
	if err := s.createTable(); err != nil {
		return nil, err
	}
	if err := s.prepareStatement(); err != nil {
		return nil, err
	}

	if recorder != nil {
		atexit.Register(func() {
			_ = s.Save(recorder.Snapshot())
			_ = s.Close()
		})
	}

	return s, nil
}

func (s *Store) createTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			accesses INTEGER,
			prefetches_issued INTEGER,
			streams_allocated INTEGER,
			streams_evicted INTEGER,
			candidate_reallocations INTEGER
		)
	`)
	return err
}

func (s *Store) prepareStatement() error {
	stmt, err := s.db.Prepare(`
		INSERT OR REPLACE INTO runs
			(run_id, accesses, prefetches_issued, streams_allocated,
			 streams_evicted, candidate_reallocations)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	s.statement = stmt
	return nil
}

// Save writes a snapshot to the runs table, replacing any prior row for
// the same run ID.
func (s *Store) Save(snap Snapshot) error {
	_, err := s.statement.Exec(
		snap.RunID,
		snap.Accesses,
		snap.PrefetchesIssued,
		snap.StreamsAllocated,
		snap.StreamsEvicted,
		snap.CandidateRealloc,
	)
	return err
}

// ListRuns returns every persisted run snapshot, most recently written
// order is not guaranteed by sqlite so callers that care should sort.
func (s *Store) ListRuns() ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT run_id, accesses, prefetches_issued, streams_allocated,
		       streams_evicted, candidate_reallocations
		FROM runs
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(
			&snap.RunID, &snap.Accesses, &snap.PrefetchesIssued,
			&snap.StreamsAllocated, &snap.StreamsEvicted, &snap.CandidateRealloc,
		); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.statement != nil {
		_ = s.statement.Close()
	}
	return s.db.Close()
}

func (s *Store) String() string {
	return fmt.Sprintf("telemetry store at %s", s.path)
}
