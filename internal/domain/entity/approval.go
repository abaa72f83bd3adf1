package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval is an 8-digit one-time number issued by a supervisor to unlock
// permission-gated actions at the register. It is consumed when a sale
// that relied on it commits.
type Approval struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ApprovalNumber string     `gorm:"size:8;not null;uniqueIndex" json:"approval_number"`
	IssuedBy       string     `gorm:"size:6;not null" json:"issued_by"`
	IsUsed         bool       `gorm:"default:false" json:"is_used"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new approval
func (a *Approval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Approval model
func (Approval) TableName() string {
	return "approvals"
}
