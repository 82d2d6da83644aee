package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// stepDirection resolves a target cell to the single cardinal step reaching
// it, if there is one.
func stepDirection(fromX, fromY, toX, toY int) (gen.Direction, bool) {
	switch {
	case toX == fromX && toY == fromY+1:
		return gen.North, true
	case toX == fromX && toY == fromY-1:
		return gen.South, true
	case toX == fromX+1 && toY == fromY:
		return gen.East, true
	case toX == fromX-1 && toY == fromY:
		return gen.West, true
	}
	return gen.North, false
}

// handleMove steps a player through an open wall. Moving into a room nobody
// has visited materializes it, with the wall behind the player forced open so
// the step is always reversible.
func (d *Dungeon) handleMove(p *Player, dirStr string, now uint64) error {
	dir, ok := gen.ParseDirection(dirStr)
	if !ok {
		return errf(protocol.ErrInvalidDirection, "bad direction %q", dirStr)
	}
	room := d.rooms.Get(p.At())
	if room == nil {
		return errf(protocol.ErrInternal, "player %s in unmaterialized room (%d,%d)", p.ID, p.X, p.Y)
	}
	if room.Walls[dir] != gen.WallOpen {
		return errf(protocol.ErrWallNotOpen, "%s wall is %s", dir, room.Walls[dir])
	}
	next, err := d.openIntoAdjacent(room, dir, p.ID, now)
	if err != nil {
		return err
	}
	fromX, fromY := p.X, p.Y
	p.X, p.Y = next.X, next.Y
	ev := evPlayerMoved(p.ID, fromX, fromY, p.X, p.Y)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}
