// Package shop holds the fixed item catalog and purchase rules.
// Prices are in coins; coins are earned 1:1 with XP.
package shop

import (
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ItemKind classifies what buying an item does.
type ItemKind string

const (
	// KindConsumable items stack in the inventory (streak freezes).
	KindConsumable ItemKind = "consumable"
	// KindAvatar items immediately replace the student's avatar.
	KindAvatar ItemKind = "avatar"
)

// Item is a purchasable catalog entry.
type Item struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Kind        ItemKind

	// InventoryID is the inventory stack credited for consumables.
	InventoryID string

	// AvatarSeed is the avatar seed applied for avatar items.
	AvatarSeed string
}

// Catalog item IDs.
const (
	ItemIDStreakFreeze  = "streak_freeze"
	ItemIDAvatarNinja   = "avatar_ninja"
	ItemIDAvatarKing    = "avatar_king"
	ItemIDAvatarMystery = "avatar_mystery"
)

// catalog is the fixed item list. Order matters for display.
var catalog = []Item{
	{
		ID:          ItemIDStreakFreeze,
		Name:        "Seri Dondurucu",
		Description: "Bir günlük boşlukta serini korur",
		Cost:        1000,
		Kind:        KindConsumable,
		InventoryID: student.ItemStreakFreeze,
	},
	{
		ID:          ItemIDAvatarNinja,
		Name:        "Ninja Avatar",
		Description: "Gizemli ninja görünümü",
		Cost:        2500,
		Kind:        KindAvatar,
		AvatarSeed:  "Ninja",
	},
	{
		ID:          ItemIDAvatarKing,
		Name:        "Kral Avatar",
		Description: "Asil kral görünümü",
		Cost:        5000,
		Kind:        KindAvatar,
		AvatarSeed:  "King",
	},
	{
		ID:          ItemIDAvatarMystery,
		Name:        "Gizemli Avatar",
		Description: "Sürpriz efsanevi görünüm",
		Cost:        10000,
		Kind:        KindAvatar,
		AvatarSeed:  "Mystery",
	},
}

// Catalog returns the full item list.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// FindItem looks up a catalog item by ID.
func FindItem(id string) (Item, error) {
	for _, it := range catalog {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, shared.ErrItemNotFound
}
