package dungeon

// Loot rolls are deterministic in (tick, looter, source): two players opening
// the same chest at the same tick still get different drops, and a snapshot
// replay reproduces every drop exactly.

// LootHash mixes the open tick, the boss variant (0 for chests), and the
// looter's id into a single roll. Player id bytes are folded in as 8-byte
// little-endian chunks so ids of any length contribute fully.
func LootHash(tick uint64, bossID int, playerID string) uint64 {
	h := tick*31 + uint64(bossID)
	b := []byte(playerID)
	for i := 0; i < len(b); i += 8 {
		var chunk uint64
		for j := 0; j < 8 && i+j < len(b); j++ {
			chunk |= uint64(b[i+j]) << (8 * uint(j))
		}
		h = h*31 + chunk
	}
	return h
}

// Drop is one rolled reward.
type Drop struct {
	ItemID     int
	Amount     int
	Durability int
}

// ChestLoot rolls a chest drop: 60% valuable, 25% tool, 15% buff.
func ChestLoot(hash uint64) Drop {
	roll := hash % 100
	switch {
	case roll < 60:
		id := ItemValuableMin + int((hash/100)%20)
		amount := 1 + int((hash/1000)%3)
		return Drop{ItemID: id, Amount: amount}
	case roll < 85:
		id := ItemWoodenPickaxe + int((hash/100)%9)
		return Drop{ItemID: id, Amount: 1, Durability: ToolDurability(id)}
	default:
		id := ItemBuffMin + int((hash/100)%2)
		return Drop{ItemID: id, Amount: 1}
	}
}

// BossLoot rolls a boss hoard drop: 35% valuable, 40% tool, 25% buff.
// Valuable drops from bosses come in bigger piles than chests.
func BossLoot(hash uint64) Drop {
	roll := hash % 100
	switch {
	case roll < 35:
		id := ItemValuableMin + int((hash/100)%20)
		amount := 2 + int((hash/1000)%5)
		return Drop{ItemID: id, Amount: amount}
	case roll < 75:
		id := ItemWoodenPickaxe + int((hash/100)%9)
		return Drop{ItemID: id, Amount: 1, Durability: ToolDurability(id)}
	default:
		id := ItemBuffMin + int((hash/100)%2)
		return Drop{ItemID: id, Amount: 1}
	}
}
