package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

func (d *Dungeon) inBounds(x, y int) bool {
	g := d.tun.Grid
	return x >= g.MinCoord && x <= g.MaxCoord && y >= g.MinCoord && y <= g.MaxCoord
}

// materializeRoom returns the room at c, generating it on first visit. The
// entrance wall is forced open for generated rooms; existing rooms are
// returned as-is, so the caller still has to open their side of the wall.
// Deepest-room bookkeeping happens here: visiting a new depth record moves
// the season frontier.
func (d *Dungeon) materializeRoom(c Coord, entrance gen.Direction, creator string, now uint64) (*Room, bool) {
	room, created := d.rooms.GetOrCreate(c, func() *Room {
		return d.generateRoom(c, entrance, creator, now)
	})
	if created && room.Depth > d.depth {
		d.depth = room.Depth
	}
	return room, created
}

func (d *Dungeon) generateRoom(c Coord, entrance gen.Direction, creator string, now uint64) *Room {
	g := d.tun.Grid
	depth := gen.Depth(c.X, c.Y, g.StartX, g.StartY)
	hash := gen.RoomHash(d.seed, c.X, c.Y)
	kind, centerID := gen.RoomCenter(d.seed, c.X, c.Y, depth, g.StartX, g.StartY)

	r := &Room{
		Coord:       c,
		Depth:       depth,
		Walls:       gen.Walls(hash, entrance),
		Center:      kind,
		CenterID:    centerID,
		Looters:     make(map[string]bool),
		CreatedBy:   creator,
		CreatedTick: now,
	}
	if kind == gen.CenterBoss {
		r.Boss = &BossState{
			MaxHP:    gen.BossHP(depth, centerID, d.tun.Bosses.BaseHP, d.tun.Bosses.MaxHP),
			LastTick: now,
			Fighters: make(map[string]uint64),
		}
		r.Boss.CurrentHP = r.Boss.MaxHP
	}
	return r
}

// startRoom builds the season's depth-0 room. Its walls come from the
// dedicated start layout so no season begins boxed in, and it never holds a
// chest or boss.
func (d *Dungeon) startRoom(now uint64) *Room {
	g := d.tun.Grid
	return &Room{
		Coord:       Coord{X: g.StartX, Y: g.StartY},
		Walls:       gen.StartWalls(d.seed),
		Looters:     make(map[string]bool),
		CreatedBy:   "",
		CreatedTick: now,
	}
}

// openIntoAdjacent materializes the room on the far side of a wall and
// forces the mirrored wall open, keeping passage bidirectional. Callers must
// already have opened (or verified open) the near side.
func (d *Dungeon) openIntoAdjacent(from *Room, dir gen.Direction, creator string, now uint64) (*Room, error) {
	nx, ny := gen.Adjacent(from.X, from.Y, dir)
	if !d.inBounds(nx, ny) {
		return nil, errf(protocol.ErrOutOfBounds, "(%d,%d) outside grid", nx, ny)
	}
	back := dir.Opposite()
	next, _ := d.materializeRoom(Coord{X: nx, Y: ny}, back, creator, now)
	next.Walls[back] = gen.WallOpen
	// The stored room must now read Open on the mirrored side; anything else
	// means the store handed back a different record than it kept.
	if got := d.rooms.Get(Coord{X: nx, Y: ny}); got == nil || got.Walls[back] != gen.WallOpen {
		return nil, errf(protocol.ErrWallNotOpen, "mirrored wall of (%d,%d) did not open", nx, ny)
	}
	return next, nil
}

// settleJob folds elapsed ticks into a job's progress. Idle and completed
// jobs are left alone; a staffed job's progress is simply the time since its
// helpers started (or last restarted) working.
func settleJob(job *JobState, now uint64) {
	if job == nil || job.Completed || job.HelperCount == 0 {
		return
	}
	if now > job.StartTick {
		job.Progress = now - job.StartTick
	}
}

// settleBoss folds elapsed ticks of fighter damage into a boss's HP and
// reports whether this settle defeated it. HP floors at zero.
func settleBoss(b *BossState, now uint64) bool {
	if b == nil || b.Defeated {
		return false
	}
	if now <= b.LastTick {
		return false
	}
	elapsed := now - b.LastTick
	b.LastTick = now
	if b.TotalDPS == 0 {
		return false
	}
	dmg := b.TotalDPS * elapsed
	if dmg >= b.CurrentHP || dmg/b.TotalDPS != elapsed {
		b.CurrentHP = 0
		b.Defeated = true
		return true
	}
	b.CurrentHP -= dmg
	return false
}

// jobProgressAt and bossHPAt are the read-only versions of the settle
// helpers, used when building observations so a pure read never mutates
// engine state.
func jobProgressAt(job *JobState, now uint64) uint64 {
	if job == nil {
		return 0
	}
	if job.Completed || job.HelperCount == 0 || now <= job.StartTick {
		return job.Progress
	}
	return now - job.StartTick
}

func bossHPAt(b *BossState, now uint64) uint64 {
	if b == nil {
		return 0
	}
	if b.Defeated || now <= b.LastTick || b.TotalDPS == 0 {
		return b.CurrentHP
	}
	elapsed := now - b.LastTick
	dmg := b.TotalDPS * elapsed
	if dmg >= b.CurrentHP || dmg/b.TotalDPS != elapsed {
		return 0
	}
	return b.CurrentHP - dmg
}
