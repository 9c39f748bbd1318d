package models

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	PropertyNumber string  `json:"propertyNumber"`
	Municipality   string  `json:"municipality"`
	AnnualWasteFee float64 `json:"annualWasteFee"`
	MeterAccountID string  `json:"meterAccountId"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	UserID    string `json:"userId"`
}
