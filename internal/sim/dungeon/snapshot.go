package dungeon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// ExportVersion guards snapshot compatibility. Bump on any breaking change
// to SeasonExport or the state it captures.
const ExportVersion = 1

// SeasonExport is the full season state in a stable, JSON-friendly shape.
// All slices are sorted so the same state always serializes to the same
// bytes.
type SeasonExport struct {
	Version       int                 `json:"version"`
	SeasonID      string              `json:"season_id"`
	Seed          uint64              `json:"seed"`
	Tick          uint64              `json:"tick"`
	EndTick       uint64              `json:"end_tick"`
	Depth         int                 `json:"depth"`
	JobsCompleted uint64              `json:"jobs_completed"`
	NextPlayerNum uint64              `json:"next_player_num"`
	Rooms         []*Room             `json:"rooms"`
	Players       []*Player           `json:"players"`
	Stakes        []*HelperStake      `json:"stakes"`
	Sessions      []*SessionAuthority `json:"sessions"`
	Accounts      map[string]uint64   `json:"accounts"`
}

// Export captures the complete season state. Safe to call from the loop
// goroutine only; the result shares no mutable references with the engine
// at the top level but room/player pointers are live, so callers that hold
// an export across ticks should serialize it immediately.
func (d *Dungeon) Export() SeasonExport {
	exp := SeasonExport{
		Version:       ExportVersion,
		SeasonID:      d.seasonID,
		Seed:          d.seed,
		Tick:          d.tick,
		EndTick:       d.endTick,
		Depth:         d.depth,
		JobsCompleted: d.jobsCompleted,
		NextPlayerNum: d.nextPlayerNum,
		Accounts:      d.ledger.Accounts(),
	}
	d.rooms.ForEach(func(r *Room) {
		exp.Rooms = append(exp.Rooms, r)
	})
	sort.Slice(exp.Rooms, func(i, j int) bool {
		a, b := exp.Rooms[i], exp.Rooms[j]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	for _, p := range d.players {
		exp.Players = append(exp.Players, p)
	}
	sort.Slice(exp.Players, func(i, j int) bool {
		return exp.Players[i].ID < exp.Players[j].ID
	})
	for _, perPlayer := range d.stakes {
		for _, s := range perPlayer {
			exp.Stakes = append(exp.Stakes, s)
		}
	}
	sort.Slice(exp.Stakes, func(i, j int) bool {
		a, b := exp.Stakes[i], exp.Stakes[j]
		if a.Key != b.Key {
			if a.Key.X != b.Key.X {
				return a.Key.X < b.Key.X
			}
			if a.Key.Y != b.Key.Y {
				return a.Key.Y < b.Key.Y
			}
			return a.Key.Dir < b.Key.Dir
		}
		return a.Player < b.Player
	})
	for _, s := range d.sessions {
		exp.Sessions = append(exp.Sessions, s)
	}
	sort.Slice(exp.Sessions, func(i, j int) bool {
		a, b := exp.Sessions[i], exp.Sessions[j]
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		return a.Delegate < b.Delegate
	})
	return exp
}

// Restore rebuilds an engine from an export. Clients are not carried over;
// players re-attach with their resume tokens.
func Restore(cfg Config, exp SeasonExport) (*Dungeon, error) {
	if exp.Version != ExportVersion {
		return nil, fmt.Errorf("dungeon: snapshot version %d, want %d", exp.Version, ExportVersion)
	}
	d := newEmpty(cfg)
	d.seasonID = exp.SeasonID
	d.seed = exp.Seed
	d.tick = exp.Tick
	d.endTick = exp.EndTick
	d.depth = exp.Depth
	d.jobsCompleted = exp.JobsCompleted
	d.nextPlayerNum = exp.NextPlayerNum
	for _, r := range exp.Rooms {
		if r.Looters == nil {
			r.Looters = make(map[string]bool)
		}
		if r.Boss != nil && r.Boss.Fighters == nil {
			r.Boss.Fighters = make(map[string]uint64)
		}
		d.rooms.Put(r)
	}
	for _, p := range exp.Players {
		d.players[p.ID] = p
		d.byToken[p.ResumeToken] = p
	}
	for _, s := range exp.Stakes {
		perPlayer := d.stakes[s.Key]
		if perPlayer == nil {
			perPlayer = make(map[string]*HelperStake)
			d.stakes[s.Key] = perPlayer
		}
		perPlayer[s.Player] = s
	}
	for _, s := range exp.Sessions {
		d.sessions[sessionKey{s.Player, s.Delegate}] = s
	}
	for acct, bal := range exp.Accounts {
		if err := d.ledger.Mint(acct, bal); err != nil {
			return nil, err
		}
	}
	d.logf("[season] %s restored at tick %d (%d rooms, %d players)",
		d.seasonID, d.tick, len(exp.Rooms), len(exp.Players))
	return d, nil
}

// Digest hashes the full exported state. Two engines that processed the
// same inputs in the same order produce the same digest; resume tokens are
// excluded because they are random per engine.
func (d *Dungeon) Digest() string {
	exp := d.Export()
	sanitized := make([]*Player, len(exp.Players))
	for i, p := range exp.Players {
		cp := *p
		cp.ResumeToken = ""
		sanitized[i] = &cp
	}
	exp.Players = sanitized
	raw, err := json.Marshal(exp)
	if err != nil {
		d.logf("[digest] marshal: %v", err)
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
