package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet is a customer's stored-value balance in minor units.
type Wallet struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"customer_id"`
	Balance    int64     `gorm:"default:0" json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Entries []WalletEntry `gorm:"foreignKey:WalletID" json:"entries,omitempty"`
}

// BeforeCreate generates a UUID before creating a new wallet
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Wallet model
func (Wallet) TableName() string {
	return "wallets"
}

// WalletEntry is one ledger line against a wallet. Amount is signed:
// deposits positive, payments negative. BalanceAfter snapshots the balance
// the entry left behind.
type WalletEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WalletID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Amount        int64     `gorm:"not null" json:"amount"`
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`
	Description   string    `gorm:"size:255" json:"description"`
	TransactionID *int64    `gorm:"index" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new wallet entry
func (e *WalletEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WalletEntry model
func (WalletEntry) TableName() string {
	return "wallet_entries"
}
