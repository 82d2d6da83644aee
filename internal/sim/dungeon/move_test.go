package dungeon

import (
	"testing"

	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

func TestMoveThroughOpenWall(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	if err := d.handleMove(p, "NORTH", d.tick); err != nil {
		t.Fatalf("move north: %v", err)
	}
	if p.X != 5 || p.Y != 6 {
		t.Fatalf("expected (5,6), got (%d,%d)", p.X, p.Y)
	}
}

func TestMoveBlockedByWall(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	err := d.handleMove(p, "WEST", d.tick)
	if CodeOf(err) != protocol.ErrWallNotOpen {
		t.Fatalf("expected E_WALL_NOT_OPEN, got %v", err)
	}
	if p.X != 5 || p.Y != 5 {
		t.Fatalf("failed move must not reposition, got (%d,%d)", p.X, p.Y)
	}
}

func TestMoveInvalidDirection(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	err := d.handleMove(p, "UP", d.tick)
	if CodeOf(err) != protocol.ErrInvalidDirection {
		t.Fatalf("expected E_INVALID_DIRECTION, got %v", err)
	}
}

func TestMoveOutOfBounds(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	d.DebugSetPlayerPos(p.ID, 10, 5)
	d.DebugSetWall(10, 5, gen.East, gen.WallOpen)
	err := d.handleMove(p, "EAST", d.tick)
	if CodeOf(err) != protocol.ErrOutOfBounds {
		t.Fatalf("expected E_OUT_OF_BOUNDS, got %v", err)
	}
}

func TestMoveOpensBackWall(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	if err := d.handleMove(p, "NORTH", d.tick); err != nil {
		t.Fatalf("move: %v", err)
	}
	room := d.DebugRoom(5, 6)
	if room == nil {
		t.Fatalf("expected (5,6) materialized")
	}
	if room.Walls[gen.South] != gen.WallOpen {
		t.Fatalf("expected back wall open, got %v", room.Walls[gen.South])
	}
	// Walking straight back must work.
	if err := d.handleMove(p, "SOUTH", d.tick); err != nil {
		t.Fatalf("return move: %v", err)
	}
}

func TestMoveByTargetCell(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	err := d.applyInstant(p, protocol.InstantReq{
		Type: protocol.InstMove, X: 5, Y: 6,
	}, d.tick)
	if err != nil {
		t.Fatalf("move to adjacent cell: %v", err)
	}
	if p.X != 5 || p.Y != 6 {
		t.Fatalf("expected (5,6), got (%d,%d)", p.X, p.Y)
	}
	err = d.applyInstant(p, protocol.InstantReq{
		Type: protocol.InstMove, X: 8, Y: 8,
	}, d.tick)
	if CodeOf(err) != protocol.ErrNotAdjacent {
		t.Fatalf("expected E_NOT_ADJACENT, got %v", err)
	}
}

func TestRoomLayoutDeterministic(t *testing.T) {
	d1 := newTestDungeon(t, testSeed)
	d2 := newTestDungeon(t, testSeed)
	a := addPlayer(d1, "a")
	b := addPlayer(d2, "b")
	if err := d1.handleMove(a, "NORTH", d1.tick); err != nil {
		t.Fatalf("d1 move: %v", err)
	}
	if err := d2.handleMove(b, "NORTH", d2.tick); err != nil {
		t.Fatalf("d2 move: %v", err)
	}
	r1, r2 := d1.DebugRoom(5, 6), d2.DebugRoom(5, 6)
	if r1.Walls != r2.Walls || r1.Center != r2.Center || r1.CenterID != r2.CenterID {
		t.Fatalf("same seed must generate identical rooms: %+v vs %+v", r1, r2)
	}
}

func TestFrontierDepthAdvances(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	if d.DebugDepth() != 0 {
		t.Fatalf("expected frontier 0, got %d", d.DebugDepth())
	}
	d.DebugSetPlayerPos(p.ID, 8, 8)
	if d.DebugDepth() != 3 {
		t.Fatalf("expected frontier 3 after visiting (8,8), got %d", d.DebugDepth())
	}
}
