package repository

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// StaffRepository defines the interface for register operator operations.
// Reads preload the user and permission rows.
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	GetByStaffCode(ctx context.Context, staffCode string) (*entity.Staff, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Staff, error)
	Update(ctx context.Context, staff *entity.Staff) error
}

// RolePermissionRepository defines the interface for permission role lookups
type RolePermissionRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.RolePermission, error)
	List(ctx context.Context) ([]entity.RolePermission, error)
	Create(ctx context.Context, role *entity.RolePermission) error
}

// CustomerRepository defines the interface for customer account operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
}

// StoreRepository defines the interface for store master lookups
type StoreRepository interface {
	GetByCode(ctx context.Context, storeCode string) (*entity.Store, error)
	List(ctx context.Context) ([]entity.Store, error)
	Create(ctx context.Context, store *entity.Store) error
}
