package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// Department is one node of the big/middle/small sales-department tree.
// Tax rate and behavior flags cascade from parents when set to inherit.
type Department struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Level          enum.DepartmentLevel `gorm:"size:10;not null;uniqueIndex:idx_departments_level_code" json:"level"`
	Code           string               `gorm:"size:3;not null;uniqueIndex:idx_departments_level_code" json:"code"`
	ParentID       *uuid.UUID           `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name           string               `gorm:"size:255;not null" json:"name"`
	TaxRate        int                  `gorm:"default:-1" json:"tax_rate"`
	AllowDiscount  enum.InheritableFlag `gorm:"default:0" json:"allow_discount"`
	AllowTaxChange enum.InheritableFlag `gorm:"default:0" json:"allow_tax_change"`
	Saleable       enum.InheritableFlag `gorm:"default:0" json:"saleable"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`

	Parent   *Department  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Department `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// BeforeCreate generates a UUID before creating a new department
func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Department model
func (Department) TableName() string {
	return "departments"
}

// EffectiveTaxRate walks up the tree until a node overrides the rate.
// The chain must be preloaded; an unresolved chain falls back to def.
func (d *Department) EffectiveTaxRate(def int) int {
	for node := d; node != nil; node = node.Parent {
		if node.TaxRate != enum.TaxRateInherit {
			return node.TaxRate
		}
	}
	return def
}

// EffectiveFlag resolves an inheritable flag against the parent chain.
// An all-inherit chain resolves to allowed.
func EffectiveFlag(d *Department, pick func(*Department) enum.InheritableFlag) bool {
	for node := d; node != nil; node = node.Parent {
		switch pick(node) {
		case enum.FlagAllow:
			return true
		case enum.FlagDeny:
			return false
		}
	}
	return true
}
