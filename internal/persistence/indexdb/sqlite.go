// Package indexdb maintains a queryable SQLite index of season events. The
// engine loop must never block on disk, so events are handed to a single
// writer goroutine through a buffered channel; under backpressure frames are
// dropped and counted rather than stalling the simulation.
package indexdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"chaindepth.gg/internal/protocol"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	tick    INTEGER NOT NULL,
	type    TEXT    NOT NULL,
	player  TEXT    NOT NULL DEFAULT '',
	payload TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS events_tick ON events(tick);
CREATE INDEX IF NOT EXISTS events_type ON events(type);
CREATE INDEX IF NOT EXISTS events_player ON events(player);
`

type row struct {
	tick    uint64
	typ     string
	player  string
	payload string
	flush   chan struct{}
}

// DB wraps the index database plus its writer goroutine.
type DB struct {
	db  *sql.DB
	in  chan row
	wg  sync.WaitGroup
	log *log.Logger

	closed  atomic.Bool
	dropped atomic.Uint64
}

// Open creates or opens the index at path and starts the writer.
func Open(path string, logger *log.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("indexdb: open: %w", err)
	}
	// One writer connection keeps SQLite happy under WAL.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("indexdb: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("indexdb: schema: %w", err)
	}
	x := &DB{
		db:  db,
		in:  make(chan row, 4096),
		log: logger,
	}
	x.wg.Add(1)
	go x.writer()
	return x, nil
}

func (x *DB) writer() {
	defer x.wg.Done()
	for r := range x.in {
		if r.flush != nil {
			close(r.flush)
			continue
		}
		_, err := x.db.Exec(
			"INSERT INTO events (tick, type, player, payload) VALUES (?, ?, ?, ?)",
			r.tick, r.typ, r.player, r.payload,
		)
		if err != nil && x.log != nil {
			x.log.Printf("[indexdb] insert: %v", err)
		}
	}
}

// SinkEvent implements the engine's event sink. Never blocks.
func (x *DB) SinkEvent(tick uint64, ev protocol.Event) {
	if x.closed.Load() {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	typ, _ := ev["type"].(string)
	player, _ := ev["player"].(string)
	select {
	case x.in <- row{tick: tick, typ: typ, player: player, payload: string(payload)}:
	default:
		x.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded under backpressure.
func (x *DB) Dropped() uint64 { return x.dropped.Load() }

// Flush blocks until every event enqueued before the call is on disk.
func (x *DB) Flush() {
	if x.closed.Load() {
		return
	}
	f := make(chan struct{})
	x.in <- row{flush: f}
	<-f
}

// Close drains pending writes and closes the database.
func (x *DB) Close() error {
	if x.closed.Swap(true) {
		return nil
	}
	close(x.in)
	x.wg.Wait()
	return x.db.Close()
}

// Event is one indexed row.
type Event struct {
	ID      int64
	Tick    uint64
	Type    string
	Player  string
	Payload string
}

// Recent returns the newest events, newest first.
func (x *DB) Recent(limit int) ([]Event, error) {
	return x.query("SELECT id, tick, type, player, payload FROM events ORDER BY id DESC LIMIT ?", limit)
}

// ByPlayer returns the newest events attributed to one player.
func (x *DB) ByPlayer(player string, limit int) ([]Event, error) {
	return x.query("SELECT id, tick, type, player, payload FROM events WHERE player = ? ORDER BY id DESC LIMIT ?", player, limit)
}

// CountByType counts indexed events of one type.
func (x *DB) CountByType(typ string) (int64, error) {
	var n int64
	err := x.db.QueryRow("SELECT COUNT(*) FROM events WHERE type = ?", typ).Scan(&n)
	return n, err
}

func (x *DB) query(q string, args ...interface{}) ([]Event, error) {
	rows, err := x.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Tick, &e.Type, &e.Player, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
