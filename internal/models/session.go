package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session lifecycle states.
const (
	SessionScheduled  = "SCHEDULED"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionFailed     = "FAILED"
	SessionCancelled  = "CANCELLED"
)

// Allocation targets for the savings earned by a session.
const (
	AllocationWasteWallet    = "WASTE_WALLET"
	AllocationSolidarityFund = "SOLIDARITY_FUND"
)

// Session is one scheduled energy-saving interval. The result fields are
// populated exactly once, when the session completes; a COMPLETED or FAILED
// session is never mutated again.
type Session struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Status            string             `bson:"status" json:"status"`
	ScheduledStart    time.Time          `bson:"scheduledStart" json:"scheduled_start"`
	ScheduledEnd      time.Time          `bson:"scheduledEnd" json:"scheduled_end"`
	DurationHours     int                `bson:"durationHours" json:"duration_hours"`
	AllocationType    string             `bson:"allocationType" json:"allocation_type"`
	ActualStart       *time.Time         `bson:"actualStart,omitempty" json:"actual_start,omitempty"`
	ActualEnd         *time.Time         `bson:"actualEnd,omitempty" json:"actual_end,omitempty"`
	BaselineKWh       float64            `bson:"baselineKwh" json:"baseline_kwh"`
	BaselineMethod    string             `bson:"baselineMethod,omitempty" json:"baseline_method,omitempty"`
	ActualKWh         float64            `bson:"actualKwh" json:"actual_consumption_kwh"`
	SavedKWh          float64            `bson:"savedKwh" json:"saved_kwh"`
	SavedEUR          float64            `bson:"savedEur" json:"saved_eur"`
	SavedCO2Kg        float64            `bson:"savedCo2Kg" json:"saved_co2_kg"`
	GreenPointsEarned int                `bson:"greenPointsEarned" json:"green_points_earned"`
	IsDoublePointsDay bool               `bson:"isDoublePointsDay" json:"is_double_points_day"`
	ErrorMessage      string             `bson:"errorMessage,omitempty" json:"error_message,omitempty"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SessionResult is the response shape for completing a session. Repeated
// completion calls return the identical stored result.
type SessionResult struct {
	SessionID         primitive.ObjectID `json:"session_id"`
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	SavedKWh          float64            `json:"saved_kwh"`
	SavedEUR          float64            `json:"saved_eur"`
	SavedCO2Kg        float64            `json:"saved_co2_kg"`
	GreenPointsEarned int                `json:"green_points_earned"`
	WalletCredit      float64            `json:"wallet_credit"`
}

// SessionStats aggregates a user's COMPLETED sessions.
type SessionStats struct {
	CompletedSessions  int     `json:"completed_sessions"`
	TotalKWhSaved      float64 `json:"total_kwh_saved"`
	TotalEURSaved      float64 `json:"total_eur_saved"`
	TotalCO2Saved      float64 `json:"total_co2_saved"`
	TotalGreenPoints   int     `json:"total_green_points"`
	AverageKWhPerEntry float64 `json:"average_savings_per_session"`
}
