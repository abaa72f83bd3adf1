package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// Product is a catalog master record, keyed by JAN code.
type Product struct {
	Jan                string             `gorm:"size:13;primary_key" json:"jan"`
	Name               string             `gorm:"size:255;not null" json:"name"`
	Price              int64              `gorm:"not null" json:"price"`
	Tax                int                `gorm:"default:8" json:"tax"`
	Status             enum.ProductStatus `gorm:"size:50;default:in_deal" json:"status"`
	DisableChangeTax   bool               `gorm:"default:false" json:"disable_change_tax"`
	DisableChangePrice bool               `gorm:"default:false" json:"disable_change_price"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// StorePrice is a per-store override of the catalog price. A row only exists
// when the store sells at a price different from the catalog.
type StorePrice struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreCode string    `gorm:"size:20;not null;uniqueIndex:idx_store_prices_store_jan" json:"store_code"`
	Jan       string    `gorm:"size:13;not null;uniqueIndex:idx_store_prices_store_jan" json:"jan"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Store   Store   `gorm:"foreignKey:StoreCode" json:"-"`
	Product Product `gorm:"foreignKey:Jan" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store price
func (p *StorePrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StorePrice model
func (StorePrice) TableName() string {
	return "store_prices"
}

// Stock is the on-hand quantity of a product at a store. Negative stock is
// permitted; the register never floors a sale on stock level.
type Stock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreCode string    `gorm:"size:20;not null;uniqueIndex:idx_stocks_store_jan" json:"store_code"`
	Jan       string    `gorm:"size:13;not null;uniqueIndex:idx_stocks_store_jan" json:"jan"`
	Stock     int       `gorm:"default:0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Store   Store   `gorm:"foreignKey:StoreCode" json:"-"`
	Product Product `gorm:"foreignKey:Jan" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock row
func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Stock model
func (Stock) TableName() string {
	return "stocks"
}

// StockReceiveHistory records one goods-receipt event at a store.
type StockReceiveHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreCode  string    `gorm:"size:20;not null;index" json:"store_code"`
	StaffCode  string    `gorm:"size:6;not null;index" json:"staff_code"`
	ReceivedAt time.Time `gorm:"autoCreateTime" json:"received_at"`

	Items []StockReceiveHistoryItem `gorm:"foreignKey:HistoryID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receive history
func (h *StockReceiveHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockReceiveHistory model
func (StockReceiveHistory) TableName() string {
	return "stock_receive_histories"
}

// StockReceiveHistoryItem is one received product within a receipt event.
type StockReceiveHistoryItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	HistoryID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Jan             string    `gorm:"size:13;not null" json:"jan"`
	AdditionalStock int       `gorm:"not null" json:"additional_stock"`
	CreatedAt       time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new receive history item
func (i *StockReceiveHistoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockReceiveHistoryItem model
func (StockReceiveHistoryItem) TableName() string {
	return "stock_receive_history_items"
}

// ProductVariation groups catalog products under one instore JAN so a single
// scan can offer the color/size variants of a representative product.
type ProductVariation struct {
	InstoreJan string    `gorm:"size:13;primary_key" json:"instore_jan"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Details []ProductVariationDetail `gorm:"foreignKey:InstoreJan" json:"variations,omitempty"`
}

// TableName returns the table name for the ProductVariation model
func (ProductVariation) TableName() string {
	return "product_variations"
}

// ProductVariationDetail links a variation to one concrete product.
type ProductVariationDetail struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InstoreJan string    `gorm:"size:13;not null;uniqueIndex:idx_variation_product" json:"instore_jan"`
	Jan        string    `gorm:"size:13;not null;uniqueIndex:idx_variation_product" json:"jan"`
	ColorName  *string   `gorm:"size:50" json:"color_name,omitempty"`

	Product Product `gorm:"foreignKey:Jan" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new variation detail
func (d *ProductVariationDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariationDetail model
func (ProductVariationDetail) TableName() string {
	return "product_variation_details"
}
