package indexdb

import (
	"path/filepath"
	"testing"

	"chaindepth.gg/internal/protocol"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	x, err := Open(filepath.Join(t.TempDir(), "index.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { x.Close() })
	return x
}

func TestSinkAndQuery(t *testing.T) {
	x := openTestDB(t)
	x.SinkEvent(10, protocol.Event{"type": "PLAYER_MOVED", "player": "P1"})
	x.SinkEvent(11, protocol.Event{"type": "JOB_JOINED", "player": "P1"})
	x.SinkEvent(12, protocol.Event{"type": "JOB_JOINED", "player": "P2"})
	x.Flush()

	events, err := x.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Tick != 12 || events[0].Type != "JOB_JOINED" {
		t.Fatalf("expected newest first, got %+v", events[0])
	}

	byPlayer, err := x.ByPlayer("P1", 10)
	if err != nil {
		t.Fatalf("by player: %v", err)
	}
	if len(byPlayer) != 2 {
		t.Fatalf("expected 2 events for P1, got %d", len(byPlayer))
	}

	n, err := x.CountByType("JOB_JOINED")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 JOB_JOINED, got %d", n)
	}
}

func TestSinkAfterCloseIsSafe(t *testing.T) {
	x := openTestDB(t)
	if err := x.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Must not panic or block.
	x.SinkEvent(1, protocol.Event{"type": "SEASON_STARTED"})
	x.Flush()
}

func TestEventSinkEndToEnd(t *testing.T) {
	// The index survives reopening the same file.
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	x, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	x.SinkEvent(5, protocol.Event{"type": "BOSS_DEFEATED", "x": 7, "y": 7})
	if err := x.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	x2, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer x2.Close()
	n, err := x2.CountByType("BOSS_DEFEATED")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected persisted event, got %d", n)
	}
}
