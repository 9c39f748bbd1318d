package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered household in the system
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	PropertyNumber   string             `bson:"propertyNumber,omitempty" json:"propertyNumber,omitempty"`
	Municipality     string             `bson:"municipality,omitempty" json:"municipality,omitempty"`
	AnnualWasteFee   float64            `bson:"annualWasteFee" json:"annualWasteFee"`
	MeterAccountID   string             `bson:"meterAccountId,omitempty" json:"meterAccountId,omitempty"`
	Role             string             `bson:"role" json:"role"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
