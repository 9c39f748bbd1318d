package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types. CREDIT adds to the balance, every other type subtracts.
const (
	TransactionCredit              = "CREDIT"
	TransactionDebit               = "DEBIT"
	TransactionDonation            = "DONATION"
	TransactionPaymentMunicipality = "PAYMENT_TO_MUNICIPALITY"
)

// Transaction is an immutable wallet ledger entry. BalanceAfter records the
// account balance at append time, so the full sequence reconstructs the
// current balance exactly.
type Transaction struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID              primitive.ObjectID  `bson:"userId" json:"userId"`
	Reference           string              `bson:"reference" json:"reference"`
	Type                string              `bson:"type" json:"type"`
	Amount              float64             `bson:"amount" json:"amount"`
	BalanceAfter        float64             `bson:"balanceAfter" json:"balance_after"`
	Description         string              `bson:"description,omitempty" json:"description,omitempty"`
	SessionID           *primitive.ObjectID `bson:"sessionId,omitempty" json:"session_id,omitempty"`
	DonationRecipientID string              `bson:"donationRecipientId,omitempty" json:"donation_recipient_id,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"created_at"`
}

// IsDebitType reports whether the type subtracts from the balance.
func IsDebitType(transactionType string) bool {
	switch transactionType {
	case TransactionDebit, TransactionDonation, TransactionPaymentMunicipality:
		return true
	}
	return false
}

// MonthlySummary aggregates one calendar month of wallet activity.
type MonthlySummary struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TotalCredits     float64 `json:"total_credits"`
	TotalDebits      float64 `json:"total_debits"`
	TotalDonations   float64 `json:"total_donations"`
	NetChange        float64 `json:"net_change"`
	TransactionCount int     `json:"transaction_count"`
}
