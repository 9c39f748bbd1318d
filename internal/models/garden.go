package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlantInstance is a small value record for a planted cell. Stage starts at
// 1 and only ever increases, capped at the catalog entry's growth stages.
type PlantInstance struct {
	PlantID       string     `bson:"plantId" json:"plant_id"`
	Stage         int        `bson:"stage" json:"stage"`
	PlantedAt     time.Time  `bson:"plantedAt" json:"planted_at"`
	LastWateredAt *time.Time `bson:"lastWateredAt,omitempty" json:"last_watered_at,omitempty"`
}

// GardenCell is one slot of the grid. Plant is nil while the cell is empty.
type GardenCell struct {
	Row   int            `bson:"row" json:"row"`
	Col   int            `bson:"col" json:"col"`
	Plant *PlantInstance `bson:"plant,omitempty" json:"plant,omitempty"`
}

// Garden is a user's fixed-size grid. Cells are stored as a flat arena in
// row-major order and addressed by (row, col); the grid never shrinks or
// grows after creation.
type Garden struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Size      int                `bson:"size" json:"size"`
	Cells     []GardenCell       `bson:"cells" json:"cells"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CellIndex returns the arena index for (row, col), or -1 when the
// coordinates fall outside the grid.
func (g *Garden) CellIndex(row, col int) int {
	if row < 0 || row >= g.Size || col < 0 || col >= g.Size {
		return -1
	}
	return row*g.Size + col
}

// NewGarden builds an empty size×size garden for a user.
func NewGarden(userID primitive.ObjectID, size int) *Garden {
	cells := make([]GardenCell, size*size)
	for i := range cells {
		cells[i].Row = i / size
		cells[i].Col = i % size
	}
	now := time.Now()
	return &Garden{
		UserID:    userID,
		Size:      size,
		Cells:     cells,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Water outcomes.
const (
	WaterGrown         = "GROWN"
	WaterAlreadyMature = "ALREADY_MATURE"
)

// WaterResult reports the outcome of watering a cell.
type WaterResult struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	PlantID   string `json:"plant_id"`
	Stage     int    `json:"stage"`
	MaxStages int    `json:"max_stages"`
	Status    string `json:"status"`
}
