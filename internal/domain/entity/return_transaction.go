package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// ReturnTransaction records a return against an earlier sale. For partial
// returns and payment changes, ModifyTransactionID links the correction
// sale written in the same atomic scope.
type ReturnTransaction struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OriginTransactionID int64           `gorm:"not null;index" json:"origin_transaction_id"`
	ModifyTransactionID *int64          `gorm:"index" json:"modify_transaction_id,omitempty"`
	StoreCode           string          `gorm:"size:20;not null;index" json:"store_code"`
	StaffCode           string          `gorm:"size:6;not null" json:"staff_code"`
	TerminalID          string          `gorm:"size:50;not null" json:"terminal_id"`
	ReturnType          enum.ReturnType `gorm:"size:20;not null" json:"return_type"`
	Reason              string          `gorm:"size:255" json:"reason"`
	RefundAmount        int64           `gorm:"not null" json:"refund_amount"`
	Date                time.Time       `gorm:"not null" json:"date"`

	Origin  Transaction     `gorm:"foreignKey:OriginTransactionID" json:"-"`
	Details []ReturnDetail  `gorm:"foreignKey:ReturnID" json:"details,omitempty"`
	Refunds []ReturnPayment `gorm:"foreignKey:ReturnID" json:"payments,omitempty"`
}

// TableName returns the table name for the ReturnTransaction model
func (ReturnTransaction) TableName() string {
	return "return_transactions"
}

// ReturnDetail is one removed line: a negative-quantity mirror of the
// origin line it unwinds.
type ReturnDetail struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReturnID int64     `gorm:"not null;index" json:"-"`
	Jan      string    `gorm:"size:20;not null" json:"jan"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Price    int64     `gorm:"not null" json:"price"`
	Tax      int       `gorm:"not null" json:"tax"`
	Discount int64     `gorm:"not null" json:"discount"`
	Quantity int       `gorm:"not null" json:"quantity"`
}

// BeforeCreate generates a UUID before creating a new return detail
func (d *ReturnDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnDetail model
func (ReturnDetail) TableName() string {
	return "return_details"
}

// ReturnPayment is one signed money movement of a return: negative amounts
// refund the shopper, positive amounts re-collect on a payment change.
type ReturnPayment struct {
	ID       uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReturnID int64              `gorm:"not null;index" json:"-"`
	Method   enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Amount   int64              `gorm:"not null" json:"amount"`
}

// BeforeCreate generates a UUID before creating a new return payment
func (p *ReturnPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnPayment model
func (ReturnPayment) TableName() string {
	return "return_payments"
}
