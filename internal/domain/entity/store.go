package entity

import "time"

// Store represents a physical shop. The store code is the natural key used
// throughout transactions, stocks and staff affiliation.
type Store struct {
	StoreCode string    `gorm:"size:20;primary_key" json:"store_code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}
