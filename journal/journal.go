// Package journal persists ritual milestones to a local SQLite database.
// The totem runs unattended for weeks; the journal is how an exhibition
// visit can be replayed afterwards.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS event (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	at      INTEGER NOT NULL,
	kind    TEXT    NOT NULL,
	seed    INTEGER NOT NULL DEFAULT 0,
	energy  REAL    NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS event_at ON event(at);
`

// Event is one journaled milestone.
type Event struct {
	ID     int64   `db:"id"`
	At     int64   `db:"at"` // unix milliseconds
	Kind   string  `db:"kind"`
	Seed   uint32  `db:"seed"`
	Energy float64 `db:"energy"`
}

// Event kinds.
const (
	KindRelease = "release"
	KindReceive = "receive"
	KindSync    = "sync"
)

// Journal records ritual events. Safe for use from one goroutine; the
// driver calls it only from the tick loop.
type Journal struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordRelease journals a locally released presence.
func (j *Journal) RecordRelease(seed uint32, energy float64) {
	j.insert(KindRelease, seed, energy)
}

// RecordReceive journals an absorbed remote presence.
func (j *Journal) RecordReceive(seed uint32, energy float64) {
	j.insert(KindReceive, seed, energy)
}

// RecordSync journals a synchronicity lock.
func (j *Journal) RecordSync() {
	j.insert(KindSync, 0, 0)
}

func (j *Journal) insert(kind string, seed uint32, energy float64) {
	_, err := j.db.Exec(
		`INSERT INTO event (at, kind, seed, energy) VALUES (?, ?, ?, ?)`,
		j.now().UnixMilli(), kind, seed, energy,
	)
	if err != nil {
		// Journaling never interrupts the ritual.
		slog.Warn("journal insert failed", "kind", kind, "err", err)
	}
}

// Recent returns the newest events, newest first.
func (j *Journal) Recent(limit int) ([]Event, error) {
	var out []Event
	err := j.db.Select(&out,
		`SELECT id, at, kind, seed, energy FROM event ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	return out, nil
}

// CountByKind tallies events per kind, for the shutdown summary.
func (j *Journal) CountByKind() (map[string]int, error) {
	rows, err := j.db.Queryx(`SELECT kind, COUNT(*) AS n FROM event GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		out[kind] = n
	}
	return out, rows.Err()
}
