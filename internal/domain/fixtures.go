package domain

// Fixtures is the seed data served by the memory provider and loaded into an
// empty sqlite database.
type Fixtures struct {
	Categories []Category
	Badges     []Badge
	Tasks      []Task
	ShopItems  []ShopItem
}

// DefaultFixtures returns a fresh copy of the built-in seed data.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Categories: []Category{
			{ID: "cat-home", Name: "Home"},
			{ID: "cat-garden", Name: "Garden"},
			{ID: "cat-community", Name: "Community"},
			{ID: "cat-treats", Name: "Treats"},
		},
		Badges: []Badge{
			{ID: "badge-helper", Name: "Helper", Description: "Completed five tasks", Image: "/assets/badges/helper.png", Points: 10},
			{ID: "badge-gardener", Name: "Gardener", Description: "Kept the garden alive for a month", Image: "/assets/badges/gardener.png", Points: 25},
		},
		Tasks: []Task{
			{
				ID: "task-water", Title: "Water the plants", Description: "Front and back garden.",
				Frequency: FrequencyDaily, Category: "cat-garden", Points: 5, Coins: 2, Active: true,
			},
			{
				ID: "task-recycling", Title: "Take out recycling", Frequency: FrequencyWeekly,
				Category: "cat-home", Points: 3, Coins: 1, Active: true,
			},
			{
				ID: "task-fair", Title: "Help at the street fair", Description: "Set up stalls from 8am.",
				Frequency: FrequencyOnce, Deadline: "2026-06-13", Category: "cat-community",
				RequiredBadge: "badge-helper", Points: 20, Coins: 10, Active: true,
			},
		},
		ShopItems: []ShopItem{
			{ID: "item-cinema", Name: "Cinema ticket", Price: 40, Quantity: 10, Category: "cat-treats", Available: true},
			{ID: "item-icecream", Name: "Ice cream", Price: 5, Quantity: 50, Category: "cat-treats", Available: true},
		},
	}
}
