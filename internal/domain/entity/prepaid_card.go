package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// PrepaidCard is a register-activated stored-value card. The 20-digit code
// is the small department code followed by a 10-digit card number. Fixed
// cards sell at Price; variable cards take the price keyed in at the
// terminal.
type PrepaidCard struct {
	CardCode        string          `gorm:"size:20;primary_key" json:"card_code"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Price           int64           `gorm:"not null" json:"price"`
	IsVariableValue bool            `gorm:"default:false" json:"is_variable_value"`
	Status          enum.CardStatus `gorm:"size:30;default:created" json:"status"`
	ExpiryDate      time.Time       `gorm:"not null" json:"expiry_date"`

	// Stamped when the sale commits.
	BuyerID       *uuid.UUID `gorm:"type:uuid" json:"buyer_id,omitempty"`
	UserID        *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	TransactionID *int64     `json:"transaction_id,omitempty"`
	SoldAt        *time.Time `json:"sold_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the PrepaidCard model
func (PrepaidCard) TableName() string {
	return "prepaid_cards"
}
