package dungeon

import (
	"sort"

	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// buildObs assembles the authoritative frame for one player. Reads are pure:
// job progress and boss HP are projected to now without settling, so
// observing never perturbs state or digests.
func (d *Dungeon) buildObs(p *Player, now uint64) protocol.ObsMsg {
	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Tick:            now,
		PlayerID:        p.ID,
		Self: protocol.SelfObs{
			Pos:          [2]int{p.X, p.Y},
			Balance:      d.ledger.Balance(p.ID),
			EquippedItem: p.EquippedItem,
			JobsDone:     p.JobsCompleted,
			ChestsLooted: p.ChestsLooted,
		},
		Events: p.drainEvents(),
	}
	for _, k := range p.ActiveJobs {
		obs.Self.ActiveJobs = append(obs.Self.ActiveJobs, protocol.JobRef{
			X: k.X, Y: k.Y, Direction: k.Dir.String(),
		})
	}
	for _, s := range p.Inventory.Slots {
		obs.Inventory = append(obs.Inventory, protocol.ItemStack{
			ItemID: s.ItemID, Amount: s.Amount, Durability: s.Durability,
		})
	}

	room := d.rooms.Get(p.At())
	if room == nil {
		return obs
	}
	obs.Room = protocol.RoomObs{
		X:           room.X,
		Y:           room.Y,
		Depth:       room.Depth,
		Center:      room.Center.String(),
		CenterID:    room.CenterID,
		LootedCount: len(room.Looters),
	}
	for dir := gen.North; dir <= gen.West; dir++ {
		obs.Room.Walls[dir] = room.Walls[dir].String()
		if job := room.Jobs[dir]; job != nil {
			obs.Room.Jobs[dir] = protocol.JobObs{
				HelperCount:    job.HelperCount,
				Progress:       jobProgressAt(job, now),
				BaseTicks:      job.BaseTicks,
				TotalStaked:    job.TotalStaked,
				Completed:      job.Completed,
				BonusPerHelper: job.BonusPerHelper,
			}
		}
	}
	if b := room.Boss; b != nil {
		hp := bossHPAt(b, now)
		obs.Room.Boss = &protocol.BossObs{
			MaxHP:        b.MaxHP,
			CurrentHP:    hp,
			TotalDPS:     b.TotalDPS,
			FighterCount: len(b.Fighters),
			Defeated:     b.Defeated || hp == 0 && b.TotalDPS > 0,
		}
	}
	for id, other := range d.players {
		if other.X == room.X && other.Y == room.Y {
			obs.Room.Players = append(obs.Room.Players, id)
		}
	}
	sort.Strings(obs.Room.Players)
	return obs
}
