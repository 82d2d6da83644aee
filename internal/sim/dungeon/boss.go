package dungeon

import (
	"chaindepth.gg/internal/protocol"
	"chaindepth.gg/internal/sim/gen"
)

// settleRoomBoss folds elapsed damage into the room's boss and emits the
// defeat event on the transition to zero HP.
func (d *Dungeon) settleRoomBoss(room *Room, now uint64) {
	if settleBoss(room.Boss, now) {
		d.sink(evBossDefeated(room.Coord, room.CenterID, now))
	}
}

// handleJoinBossFight adds the player's damage to the room's boss. The
// contributed DPS is fixed at join time from the then-equipped tool; swapping
// tools mid-fight does not retroactively change it.
func (d *Dungeon) handleJoinBossFight(p *Player, now uint64) error {
	room := d.rooms.Get(p.At())
	if room == nil || room.Boss == nil {
		return errf(protocol.ErrNoBoss, "no boss here")
	}
	boss := room.Boss
	d.settleRoomBoss(room, now)
	if boss.Defeated {
		return errf(protocol.ErrBossDefeated, "boss already down")
	}
	if _, ok := boss.Fighters[p.ID]; ok {
		return errf(protocol.ErrAlreadyFighting, "already in this fight")
	}
	dps := d.tun.Bosses.BaseFighterDPS + WeaponDPSBonus(p.EquippedItem)
	boss.Fighters[p.ID] = dps
	boss.TotalDPS += dps

	ev := evBossJoined(p.ID, room.Coord, dps)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleLeaveBossFight withdraws the player's damage contribution. Damage
// dealt up to now is settled first so leaving never refunds progress.
func (d *Dungeon) handleLeaveBossFight(p *Player, now uint64) error {
	room := d.rooms.Get(p.At())
	if room == nil || room.Boss == nil {
		return errf(protocol.ErrNoBoss, "no boss here")
	}
	boss := room.Boss
	d.settleRoomBoss(room, now)
	if boss.Defeated {
		return errf(protocol.ErrBossDefeated, "boss already down")
	}
	dps, ok := boss.Fighters[p.ID]
	if !ok {
		return errf(protocol.ErrNotFighter, "not in this fight")
	}
	boss.TotalDPS -= dps
	delete(boss.Fighters, p.ID)

	ev := evBossLeft(p.ID, room.Coord)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleLootBoss rolls one hoard drop for the player from a defeated boss.
// Each player loots once; the hoard supports a bounded number of looters.
// An overfull inventory fails the loot without consuming the attempt.
func (d *Dungeon) handleLootBoss(p *Player, now uint64) error {
	room := d.rooms.Get(p.At())
	if room == nil || room.Boss == nil {
		return errf(protocol.ErrNoBoss, "no boss here")
	}
	d.settleRoomBoss(room, now)
	if !room.Boss.Defeated {
		return errf(protocol.ErrBossNotDefeated, "boss still standing")
	}
	if room.Looters[p.ID] {
		return errf(protocol.ErrAlreadyLooted, "hoard already looted")
	}
	if len(room.Looters) >= d.tun.Loot.MaxLooters {
		return errf(protocol.ErrLootersFull, "hoard exhausted after %d looters", d.tun.Loot.MaxLooters)
	}
	drop := BossLoot(LootHash(now, room.CenterID, p.ID))
	if err := p.Inventory.Add(drop.ItemID, drop.Amount, drop.Durability, d.tun.Loot.MaxInventorySlots); err != nil {
		return err
	}
	room.Looters[p.ID] = true

	ev := evBossLooted(p.ID, room.Coord, drop)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}

// handleLootChest rolls one chest drop in the player's current room.
func (d *Dungeon) handleLootChest(p *Player, now uint64) error {
	room := d.rooms.Get(p.At())
	if room == nil || room.Center != gen.CenterChest {
		return errf(protocol.ErrNoChest, "no chest here")
	}
	if room.Looters[p.ID] {
		return errf(protocol.ErrAlreadyLooted, "chest already looted")
	}
	if len(room.Looters) >= d.tun.Loot.MaxLooters {
		return errf(protocol.ErrLootersFull, "chest exhausted after %d looters", d.tun.Loot.MaxLooters)
	}
	drop := ChestLoot(LootHash(now, 0, p.ID))
	if err := p.Inventory.Add(drop.ItemID, drop.Amount, drop.Durability, d.tun.Loot.MaxInventorySlots); err != nil {
		return err
	}
	room.Looters[p.ID] = true
	p.ChestsLooted++

	ev := evChestLooted(p.ID, room.Coord, drop)
	p.addEvent(ev)
	d.sink(ev)
	return nil
}
