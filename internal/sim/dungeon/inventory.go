package dungeon

import (
	"chaindepth.gg/internal/protocol"
)

// ItemStack is a quantity of one item. Tools carry durability; stacks only
// merge when both id and durability match, so a worn pickaxe never averages
// into a fresh one.
type ItemStack struct {
	ItemID     int `json:"item_id"`
	Amount     int `json:"amount"`
	Durability int `json:"durability,omitempty"`
}

// Inventory is a bounded list of stacks. Slot order is insertion order,
// which keeps observations and snapshots deterministic.
type Inventory struct {
	Slots []ItemStack `json:"slots"`
}

// Add places amount of an item, merging into an existing stack when id and
// durability match. A brand-new stack in a full inventory fails with
// E_INVENTORY_FULL and changes nothing.
func (inv *Inventory) Add(itemID, amount, durability, maxSlots int) error {
	if amount <= 0 {
		return errf(protocol.ErrBadRequest, "non-positive amount %d", amount)
	}
	for i := range inv.Slots {
		s := &inv.Slots[i]
		if s.ItemID == itemID && s.Durability == durability {
			s.Amount += amount
			return nil
		}
	}
	if len(inv.Slots) >= maxSlots {
		return errf(protocol.ErrInventoryFull, "all %d slots occupied", maxSlots)
	}
	inv.Slots = append(inv.Slots, ItemStack{ItemID: itemID, Amount: amount, Durability: durability})
	return nil
}

// Remove takes amount of an item regardless of durability, draining stacks
// in slot order. Fails with E_INSUFFICIENT_ITEMS if the total held is short.
func (inv *Inventory) Remove(itemID, amount int) error {
	if inv.Count(itemID) < amount {
		return errf(protocol.ErrInsufficientItems, "need %d of item %d", amount, itemID)
	}
	remaining := amount
	out := inv.Slots[:0]
	for _, s := range inv.Slots {
		if s.ItemID == itemID && remaining > 0 {
			take := s.Amount
			if take > remaining {
				take = remaining
			}
			s.Amount -= take
			remaining -= take
		}
		if s.Amount > 0 {
			out = append(out, s)
		}
	}
	inv.Slots = out
	return nil
}

// Count sums the held amount of an item across stacks.
func (inv *Inventory) Count(itemID int) int {
	total := 0
	for _, s := range inv.Slots {
		if s.ItemID == itemID {
			total += s.Amount
		}
	}
	return total
}

func (inv *Inventory) Has(itemID int) bool { return inv.Count(itemID) > 0 }
