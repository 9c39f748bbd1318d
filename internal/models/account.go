package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is the per-user rewards account: the waste-wallet currency
// balance plus the green points counter. Mutated only through the wallet
// ledger and points operations, one writer per user at a time.
type Account struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	CurrentBalance      float64            `bson:"currentBalance" json:"current_balance"`
	TotalEarned         float64            `bson:"totalEarned" json:"total_earned"`
	TotalSpent          float64            `bson:"totalSpent" json:"total_spent"`
	PointsBalance       int                `bson:"pointsBalance" json:"points_balance"`
	SessionsContributed int                `bson:"sessionsContributed" json:"sessions_contributed"`
	LastPaymentDate     *time.Time         `bson:"lastPaymentDate,omitempty" json:"last_payment_date,omitempty"`
	LastPaymentAmount   float64            `bson:"lastPaymentAmount" json:"last_payment_amount"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CoverageSnapshot is derived from an Account on demand, never stored.
type CoverageSnapshot struct {
	CurrentBalance     float64 `json:"current_balance"`
	AnnualWasteFee     float64 `json:"annual_waste_fee"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	MonthsCovered      float64 `json:"months_covered"`
	RemainingToCover   float64 `json:"remaining_to_cover"`
}
