package dungeon

import (
	"chaindepth.gg/internal/protocol"
)

const maxDisplayName = 24

// handleCreateProfile fills in the player's cosmetic identity and grants the
// starter pickaxe, auto-equipped. One-shot per player.
func (d *Dungeon) handleCreateProfile(p *Player, skinID int, displayName string) error {
	if p.ProfileCreated {
		return errf(protocol.ErrBadRequest, "profile already created")
	}
	if len(displayName) > maxDisplayName {
		return errf(protocol.ErrBadRequest, "display name over %d bytes", maxDisplayName)
	}
	if err := p.Inventory.Add(StarterItem, 1, ToolDurability(StarterItem), d.tun.Loot.MaxInventorySlots); err != nil {
		return err
	}
	p.SkinID = skinID
	p.DisplayName = displayName
	p.EquippedItem = StarterItem
	p.ProfileCreated = true
	return nil
}

// handleEquipItem equips a held tool, or unequips with item id 0.
func (d *Dungeon) handleEquipItem(p *Player, itemID int) error {
	if itemID == 0 {
		p.EquippedItem = 0
		return nil
	}
	if !IsTool(itemID) {
		return errf(protocol.ErrInvalidItem, "item %d is not equippable", itemID)
	}
	if !p.Inventory.Has(itemID) {
		return errf(protocol.ErrInsufficientItems, "item %d not held", itemID)
	}
	p.EquippedItem = itemID
	return nil
}
