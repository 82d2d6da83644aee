// Package dungeon implements the authoritative season state machine: the
// shared room grid, wall-clearing jobs, boss fights, loot, delegated
// sessions, and the token ledger backing them. All state is owned by the
// engine loop goroutine; everything else talks to it over channels.
package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// Coord identifies a room on the season grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// JobKey identifies one wall-clearing job: a wall of a specific room. The
// mirrored wall in the adjacent room is a distinct key with independent state.
type JobKey struct {
	Coord
	Dir gen.Direction `json:"dir"`
}

// JobState tracks one rubble wall being worked on. Progress is settled
// lazily: while helpers are present it is derived from StartTick, so no
// per-tick bookkeeping happens for idle jobs.
type JobState struct {
	HelperCount    int
	StartTick      uint64
	Progress       uint64
	BaseTicks      uint64
	TotalStaked    uint64
	Completed      bool
	BonusPerHelper uint64
}

// BossState tracks a boss encounter. HP is settled lazily from LastTick and
// the aggregate DPS of everyone in the fight.
type BossState struct {
	MaxHP     uint64
	CurrentHP uint64
	TotalDPS  uint64
	LastTick  uint64
	Defeated  bool
	Fighters  map[string]uint64 // player id -> contributed dps
}

// Room is one cell of the season grid. Rooms are materialized on first visit
// and never destroyed within a season.
type Room struct {
	Coord
	Depth    int
	Walls    [4]gen.WallState
	Jobs     [4]*JobState
	Center   gen.CenterKind
	CenterID int
	Boss     *BossState

	// Looters records who already opened this room's chest or boss hoard.
	Looters map[string]bool

	CreatedBy   string
	CreatedTick uint64
}

// HelperStake is one player's escrowed participation in one job. It survives
// job completion until the player claims, so the claim step can pay out the
// recorded share exactly once.
type HelperStake struct {
	Player   string
	Key      JobKey
	Staked   uint64
	JoinTick uint64
	Claimed  bool
}

// SessionAuthority is a delegation grant from a wallet owner to another key.
type SessionAuthority struct {
	Player    string
	Delegate  string
	StartTick uint64
	EndTick   uint64
	Allowlist uint64
	SpendCap  uint64 // remaining budget, debited as delegated acts succeed
	Active    bool
	CreatedAt uint64
}

// Player is one wallet's presence in the season.
type Player struct {
	ID          string
	Name        string
	ResumeToken string

	X, Y int

	DisplayName    string
	SkinID         int
	EquippedItem   int
	ProfileCreated bool

	JobsCompleted uint64
	ChestsLooted  uint64

	// ActiveJobs lists unclaimed stakes in join order. Capped by tuning.
	ActiveJobs []JobKey

	Inventory Inventory

	// events pending delivery in the next OBS frame.
	events []protocol.Event
}

func (p *Player) At() Coord { return Coord{X: p.X, Y: p.Y} }

func (p *Player) addEvent(e protocol.Event) {
	p.events = append(p.events, e)
}

func (p *Player) drainEvents() []protocol.Event {
	ev := p.events
	p.events = nil
	return ev
}

func (p *Player) hasActiveJob(k JobKey) bool {
	for _, j := range p.ActiveJobs {
		if j == k {
			return true
		}
	}
	return false
}

func (p *Player) dropActiveJob(k JobKey) {
	for i, j := range p.ActiveJobs {
		if j == k {
			p.ActiveJobs = append(p.ActiveJobs[:i], p.ActiveJobs[i+1:]...)
			return
		}
	}
}
