package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// Transaction is one settled register event. The auto-incremented ID is the
// receipt number printed at the terminal.
type Transaction struct {
	ID         int64                  `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreCode  string                 `gorm:"size:20;not null;index" json:"store_code"`
	StaffCode  string                 `gorm:"size:6;not null;index" json:"staff_code"`
	TerminalID string                 `gorm:"size:50;not null" json:"terminal_id"`
	Status     enum.TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	Date       time.Time              `gorm:"not null" json:"date"`

	TotalQuantity  int   `gorm:"not null" json:"total_quantity"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`
	TaxAmount      int64 `gorm:"not null" json:"tax_amount"`
	TotalTax10     int64 `gorm:"not null" json:"total_tax10"`
	TotalTax8      int64 `gorm:"not null" json:"total_tax8"`
	DiscountAmount int64 `gorm:"not null" json:"discount_amount"`
	Deposit        int64 `gorm:"not null" json:"deposit"`
	Change         int64 `gorm:"not null" json:"change"`

	ApprovalNumber *string    `gorm:"size:8" json:"approval_number,omitempty"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	// OriginTransactionID points a resale back at the transaction it
	// corrects; CorrectionLinkID points the corrected origin forward.
	OriginTransactionID *int64 `gorm:"index" json:"origin_transaction_id,omitempty"`
	CorrectionLinkID    *int64 `json:"correction_link_id,omitempty"`

	Lines    []TransactionLine `gorm:"foreignKey:TransactionID" json:"sale_products,omitempty"`
	Payments []Payment         `gorm:"foreignKey:TransactionID" json:"payments,omitempty"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionLine is one resolved item on a receipt. Jan holds whatever
// code settled the line: a catalog JAN, a department code, a prepaid card
// code or a clearance tag's underlying JAN.
type TransactionLine struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID int64     `gorm:"not null;index" json:"-"`
	LineNo        int       `gorm:"not null" json:"line_no"`
	Jan           string    `gorm:"size:20;not null" json:"jan"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Price         int64     `gorm:"not null" json:"price"`
	Tax           int       `gorm:"not null" json:"tax"`
	Discount      int64     `gorm:"not null" json:"discount"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	CarriedOver   bool      `gorm:"default:false" json:"carried_over"`
	TagCode       *string   `gorm:"size:13" json:"tag_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new transaction line
func (l *TransactionLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionLine model
func (TransactionLine) TableName() string {
	return "transaction_lines"
}

// Payment is one tender applied to a transaction. Amount is what the
// shopper handed over; overtender beyond the change-eligible portion stays
// recorded as tendered.
type Payment struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID int64              `gorm:"not null;index" json:"-"`
	Method        enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Amount        int64              `gorm:"not null" json:"amount"`
	CreatedAt     time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
