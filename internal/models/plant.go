package models

import "time"

// PlantCatalogEntry is static reference data for the garden shop.
type PlantCatalogEntry struct {
	PlantID      string    `bson:"_id" json:"plant_id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Cost         int       `bson:"costInGreenPoints" json:"cost_in_green_points"`
	GrowthStages int       `bson:"growthStages" json:"growth_stages"`
	ImageURL     string    `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	IsActive     bool      `bson:"isActive" json:"is_active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// DefaultPlantCatalog returns the stock catalog seeded on first run.
func DefaultPlantCatalog() []PlantCatalogEntry {
	return []PlantCatalogEntry{
		{PlantID: "sunflower", Name: "Sunflower", Description: "Bright sunflower that follows the sun", Cost: 100, GrowthStages: 5, ImageURL: "/assets/plants/sunflower.png", IsActive: true},
		{PlantID: "olive_tree", Name: "Cypriot Olive Tree", Description: "Traditional tree of Cyprus", Cost: 500, GrowthStages: 7, ImageURL: "/assets/plants/olive_tree.png", IsActive: true},
		{PlantID: "rose", Name: "Rose", Description: "Rose bush with red blossoms", Cost: 150, GrowthStages: 4, ImageURL: "/assets/plants/rose.png", IsActive: true},
		{PlantID: "cactus", Name: "Cactus", Description: "Hardy plant that needs little water", Cost: 75, GrowthStages: 3, ImageURL: "/assets/plants/cactus.png", IsActive: true},
		{PlantID: "lemon_tree", Name: "Lemon Tree", Description: "Fragrant lemon tree with fresh lemons", Cost: 400, GrowthStages: 6, ImageURL: "/assets/plants/lemon_tree.png", IsActive: true},
		{PlantID: "lavender", Name: "Lavender", Description: "Aromatic plant with purple blossoms", Cost: 200, GrowthStages: 4, ImageURL: "/assets/plants/lavender.png", IsActive: true},
	}
}
