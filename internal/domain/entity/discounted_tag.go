package entity

import "time"

// DiscountedTag is a one-shot clearance sticker. Scanning the 13-digit tag
// code sells the underlying product at the discounted price and burns the
// tag so it cannot be scanned twice.
type DiscountedTag struct {
	TagCode         string     `gorm:"size:13;primary_key" json:"tag_code"`
	StoreCode       string     `gorm:"size:20;not null;index" json:"store_code"`
	Jan             string     `gorm:"size:13;not null" json:"jan"`
	DiscountedPrice int64      `gorm:"not null" json:"discounted_price"`
	IsUsed          bool       `gorm:"default:false" json:"is_used"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Store   Store   `gorm:"foreignKey:StoreCode" json:"-"`
	Product Product `gorm:"foreignKey:Jan" json:"-"`
}

// TableName returns the table name for the DiscountedTag model
func (DiscountedTag) TableName() string {
	return "discounted_tags"
}
