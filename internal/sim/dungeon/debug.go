package dungeon

import (
	"chaindepth.gg/internal/sim/gen"
)

// Debug helpers for tests and the bot tooling. They mutate state directly
// and must only be called from the goroutine driving StepOnce.

// DebugPlayer returns the live player record.
func (d *Dungeon) DebugPlayer(id string) *Player { return d.players[id] }

// DebugRoom returns the live room record, materializing nothing.
func (d *Dungeon) DebugRoom(x, y int) *Room { return d.rooms.Get(Coord{X: x, Y: y}) }

// DebugSetPlayerPos teleports a player, materializing the target room as if
// entered from the south.
func (d *Dungeon) DebugSetPlayerPos(id string, x, y int) {
	p := d.players[id]
	if p == nil || !d.inBounds(x, y) {
		return
	}
	d.materializeRoom(Coord{X: x, Y: y}, gen.South, p.ID, d.tick)
	p.X, p.Y = x, y
}

// DebugSetWall overrides one wall of a materialized room.
func (d *Dungeon) DebugSetWall(x, y int, dir gen.Direction, state gen.WallState) {
	if r := d.rooms.Get(Coord{X: x, Y: y}); r != nil {
		r.Walls[dir] = state
	}
}

// DebugPlaceBoss installs a boss with the given HP in a materialized room,
// replacing whatever center it generated with.
func (d *Dungeon) DebugPlaceBoss(x, y int, bossID int, maxHP uint64) {
	r := d.rooms.Get(Coord{X: x, Y: y})
	if r == nil {
		return
	}
	r.Center = gen.CenterBoss
	r.CenterID = bossID
	r.Boss = &BossState{
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		LastTick:  d.tick,
		Fighters:  make(map[string]uint64),
	}
}

// DebugPlaceChest installs a chest in a materialized room.
func (d *Dungeon) DebugPlaceChest(x, y int) {
	if r := d.rooms.Get(Coord{X: x, Y: y}); r != nil {
		r.Center = gen.CenterChest
		r.CenterID = 1
		r.Boss = nil
	}
}

// DebugBalance reads a ledger account.
func (d *Dungeon) DebugBalance(acct string) uint64 { return d.ledger.Balance(acct) }

// DebugLedgerTotal sums every ledger account.
func (d *Dungeon) DebugLedgerTotal() uint64 { return d.ledger.Total() }

// DebugAdvanceTicks jumps the clock forward without processing inputs.
// Lazily settled quantities (job progress, boss HP) observe the jump on
// their next touch, exactly as if the ticks had elapsed one by one.
func (d *Dungeon) DebugAdvanceTicks(n uint64) { d.tick += n }

// DebugDepth reports the season frontier depth.
func (d *Dungeon) DebugDepth() int { return d.depth }
