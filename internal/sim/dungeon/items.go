package dungeon

// Item id ranges. Ids are stable wire values.
//
//	100-108  tools (pickaxes, swords, one easter egg)
//	200-219  valuables (ores, gems, relics)
//	300-301  consumable buffs
const (
	ItemWoodenPickaxe  = 100
	ItemBronzePickaxe  = 101
	ItemIronPickaxe    = 102
	ItemDiamondPickaxe = 103
	ItemWoodenSword    = 104
	ItemBronzeSword    = 105
	ItemIronSword      = 106
	ItemDiamondSword   = 107
	ItemNokia          = 108

	ItemValuableMin = 200
	ItemValuableMax = 219

	ItemBuffMin = 300
	ItemBuffMax = 301
)

// StarterItem is granted and auto-equipped when a profile is created.
const StarterItem = ItemBronzePickaxe

func IsTool(id int) bool     { return id >= ItemWoodenPickaxe && id <= ItemNokia }
func IsValuable(id int) bool { return id >= ItemValuableMin && id <= ItemValuableMax }
func IsBuff(id int) bool     { return id >= ItemBuffMin && id <= ItemBuffMax }

func ValidItem(id int) bool {
	return IsTool(id) || IsValuable(id) || IsBuff(id)
}

// ToolDurability returns the starting durability for a tool, 0 for non-tools.
func ToolDurability(id int) int {
	switch id {
	case ItemWoodenPickaxe, ItemWoodenSword:
		return 60
	case ItemBronzePickaxe, ItemBronzeSword:
		return 80
	case ItemIronPickaxe, ItemIronSword:
		return 120
	case ItemDiamondPickaxe, ItemDiamondSword:
		return 200
	case ItemNokia:
		return 9999
	default:
		return 0
	}
}

// WeaponDPSBonus is the extra per-tick boss damage an equipped tool grants.
// Pickaxes clear rubble, swords fight; the Nokia does both badly and
// neither well.
func WeaponDPSBonus(id int) uint64 {
	switch id {
	case ItemWoodenSword:
		return 5
	case ItemBronzeSword:
		return 10
	case ItemIronSword:
		return 20
	case ItemDiamondSword:
		return 40
	case ItemNokia:
		return 15
	default:
		return 0
	}
}
