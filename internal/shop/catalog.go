package shop

import "taskify/internal/ledger"

// Item is one cosmetic store entry.
type Item struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Kind        ledger.ItemKind
	ComingSoon  bool
}

// Free reports whether the item is owned from the start.
func (i Item) Free() bool { return i.Cost == 0 }

var Themes = []Item{
	{ID: "light", Name: "Light Mode", Description: "Clean and bright interface for daytime productivity", Cost: 0, Kind: ledger.ItemTheme},
	{ID: "dark", Name: "Dark Mode", Description: "Easy on the eyes for late-night task management", Cost: 0, Kind: ledger.ItemTheme},
	{ID: "sunset-glow", Name: "Sunset Glow", Description: "Warm oranges and purples inspired by beautiful sunsets", Cost: 500, Kind: ledger.ItemTheme},
	{ID: "ocean-breeze", Name: "Ocean Breeze", Description: "Cool blues and teals for a calming workspace", Cost: 750, Kind: ledger.ItemTheme, ComingSoon: true},
	{ID: "forest-zen", Name: "Forest Zen", Description: "Natural greens for a peaceful, focused environment", Cost: 1000, Kind: ledger.ItemTheme, ComingSoon: true},
}

var Pets = []Item{
	{ID: "doggo", Name: "Doggo", Description: "Your loyal coding companion who celebrates every completed task!", Cost: 500, Kind: ledger.ItemPet},
	{ID: "kitto", Name: "Kitto", Description: "A curious cat who purrs when you finish your work on time", Cost: 750, Kind: ledger.ItemPet, ComingSoon: true},
	{ID: "birby", Name: "Birby", Description: "A cheerful bird that chirps motivational messages", Cost: 1000, Kind: ledger.ItemPet, ComingSoon: true},
	{ID: "fishy", Name: "Fishy", Description: "A zen fish that helps you stay calm and focused", Cost: 1250, Kind: ledger.ItemPet, ComingSoon: true},
}

// All returns the full catalog, themes first.
func All() []Item {
	out := make([]Item, 0, len(Themes)+len(Pets))
	out = append(out, Themes...)
	out = append(out, Pets...)
	return out
}

// Find looks an item up by id.
func Find(id string) (Item, bool) {
	for _, it := range All() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
