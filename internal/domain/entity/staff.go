package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a login principal. Staff rows extend a user with register
// permissions; customer rows extend one with a wallet.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Staff is a register operator. StaffCode is the 6-digit code keyed in at
// the terminal and embedded in the access token.
type Staff struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	StaffCode      string    `gorm:"size:6;not null;uniqueIndex" json:"staff_code"`
	AffiliateStore string    `gorm:"size:20;not null" json:"affiliate_store_code"`
	PermissionCode string    `gorm:"size:50;not null" json:"permission_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User       User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Store      Store          `gorm:"foreignKey:AffiliateStore" json:"-"`
	Permission RolePermission `gorm:"foreignKey:PermissionCode;references:Code" json:"permission,omitempty"`
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staffs"
}

// BeforeCreate generates a UUID before creating a new staff
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// RolePermission bundles the register permission flags granted to a role.
type RolePermission struct {
	Code         string    `gorm:"size:50;primary_key" json:"code"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Register     bool      `gorm:"default:false" json:"register"`
	Global       bool      `gorm:"default:false" json:"global"`
	ChangePrice  bool      `gorm:"default:false" json:"change_price"`
	Void         bool      `gorm:"default:false" json:"void"`
	StockReceive bool      `gorm:"default:false" json:"stock_receive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the RolePermission model
func (RolePermission) TableName() string {
	return "role_permissions"
}

// Customer is a wallet-holding shopper account.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Wallet *Wallet `gorm:"foreignKey:CustomerID" json:"wallet,omitempty"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
