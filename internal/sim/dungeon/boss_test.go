package dungeon

import (
	"strconv"
	"testing"

	"chaindepth.gg/internal/protocol"
)

func placeBossWithPlayer(t *testing.T, d *Dungeon, hp uint64) *Player {
	t.Helper()
	p := addPlayer(d, "fighter")
	d.DebugSetPlayerPos(p.ID, 7, 7)
	d.DebugPlaceBoss(7, 7, 2, hp)
	return p
}

func TestBossFightSettlesLazily(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join fight: %v", err)
	}
	boss := d.DebugRoom(7, 7).Boss
	if boss.TotalDPS != 50 {
		t.Fatalf("expected 50 dps for bare hands, got %d", boss.TotalDPS)
	}
	d.DebugAdvanceTicks(10)
	if hp := bossHPAt(boss, d.tick); hp != 500 {
		t.Fatalf("expected 500 hp after 10 ticks, got %d", hp)
	}
	d.DebugAdvanceTicks(10)
	if hp := bossHPAt(boss, d.tick); hp != 0 {
		t.Fatalf("expected boss dead after 20 ticks, got %d hp", hp)
	}
}

func TestBossFightEquippedWeaponAddsDPS(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	if err := p.Inventory.Add(ItemIronSword, 1, ToolDurability(ItemIronSword), 64); err != nil {
		t.Fatalf("add sword: %v", err)
	}
	if err := d.handleEquipItem(p, ItemIronSword); err != nil {
		t.Fatalf("equip: %v", err)
	}
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join fight: %v", err)
	}
	if dps := d.DebugRoom(7, 7).Boss.TotalDPS; dps != 70 {
		t.Fatalf("expected 50+20 dps with iron sword, got %d", dps)
	}
}

func TestBossFightJoinTwice(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join: %v", err)
	}
	err := d.handleJoinBossFight(p, d.tick)
	if CodeOf(err) != protocol.ErrAlreadyFighting {
		t.Fatalf("expected E_ALREADY_FIGHTING, got %v", err)
	}
}

func TestBossFightLeaveRemovesDPS(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 100_000)
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join: %v", err)
	}
	d.DebugAdvanceTicks(10)
	if err := d.handleLeaveBossFight(p, d.tick); err != nil {
		t.Fatalf("leave: %v", err)
	}
	boss := d.DebugRoom(7, 7).Boss
	if boss.TotalDPS != 0 {
		t.Fatalf("expected 0 dps after leave, got %d", boss.TotalDPS)
	}
	// Damage dealt before leaving stays settled.
	if boss.CurrentHP != 100_000-500 {
		t.Fatalf("expected settled hp %d, got %d", 100_000-500, boss.CurrentHP)
	}
	err := d.handleLeaveBossFight(p, d.tick)
	if CodeOf(err) != protocol.ErrNotFighter {
		t.Fatalf("expected E_NOT_FIGHTER, got %v", err)
	}
}

func TestLootBossBeforeDefeat(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	err := d.handleLootBoss(p, d.tick)
	if CodeOf(err) != protocol.ErrBossNotDefeated {
		t.Fatalf("expected E_BOSS_NOT_DEFEATED, got %v", err)
	}
}

func TestLootBossOncePerPlayer(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join: %v", err)
	}
	d.DebugAdvanceTicks(20)
	if err := d.handleLootBoss(p, d.tick); err != nil {
		t.Fatalf("loot: %v", err)
	}
	if len(p.Inventory.Slots) == 0 {
		t.Fatalf("expected a drop in inventory")
	}
	err := d.handleLootBoss(p, d.tick)
	if CodeOf(err) != protocol.ErrAlreadyLooted {
		t.Fatalf("expected E_ALREADY_LOOTED, got %v", err)
	}
}

func TestLootBossCapacity(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := placeBossWithPlayer(t, d, 1000)
	if err := d.handleJoinBossFight(p, d.tick); err != nil {
		t.Fatalf("join: %v", err)
	}
	d.DebugAdvanceTicks(20)
	if err := d.handleLootBoss(p, d.tick); err != nil {
		t.Fatalf("loot fighter: %v", err)
	}
	for i := 0; i < d.tun.Loot.MaxLooters-1; i++ {
		q := addPlayer(d, "looter"+strconv.Itoa(i))
		d.DebugSetPlayerPos(q.ID, 7, 7)
		if err := d.handleLootBoss(q, d.tick); err != nil {
			t.Fatalf("loot %d: %v", i, err)
		}
	}
	late := addPlayer(d, "late")
	d.DebugSetPlayerPos(late.ID, 7, 7)
	err := d.handleLootBoss(late, d.tick)
	if CodeOf(err) != protocol.ErrLootersFull {
		t.Fatalf("expected E_LOOTERS_FULL, got %v", err)
	}
}

func TestLootChest(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	d.DebugSetPlayerPos(p.ID, 6, 5)
	d.DebugPlaceChest(6, 5)
	if err := d.handleLootChest(p, d.tick); err != nil {
		t.Fatalf("loot chest: %v", err)
	}
	if p.ChestsLooted != 1 {
		t.Fatalf("expected chest counter 1, got %d", p.ChestsLooted)
	}
	err := d.handleLootChest(p, d.tick)
	if CodeOf(err) != protocol.ErrAlreadyLooted {
		t.Fatalf("expected E_ALREADY_LOOTED, got %v", err)
	}
}

func TestLootChestNoChest(t *testing.T) {
	d := newTestDungeon(t, testSeed)
	p := addPlayer(d, "alice")
	err := d.handleLootChest(p, d.tick)
	if CodeOf(err) != protocol.ErrNoChest {
		t.Fatalf("expected E_NO_CHEST, got %v", err)
	}
}

func TestLootRollsDifferPerPlayer(t *testing.T) {
	a := LootHash(40, 2, "P1")
	b := LootHash(40, 2, "P2")
	if a == b {
		t.Fatalf("expected distinct rolls for distinct looters")
	}
}
