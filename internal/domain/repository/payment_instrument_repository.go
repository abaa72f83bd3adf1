package repository

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/google/uuid"
)

// PrepaidCardRepository defines the interface for prepaid card operations
type PrepaidCardRepository interface {
	Create(ctx context.Context, card *entity.PrepaidCard) error
	GetByCode(ctx context.Context, cardCode string) (*entity.PrepaidCard, error)
	// GetByCodeForUpdate locks the card row for the enclosing transaction
	GetByCodeForUpdate(ctx context.Context, cardCode string) (*entity.PrepaidCard, error)
	Update(ctx context.Context, card *entity.PrepaidCard) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.PrepaidCard, int64, error)
}

// DiscountedTagRepository defines the interface for clearance tag operations
type DiscountedTagRepository interface {
	Create(ctx context.Context, tag *entity.DiscountedTag) error
	GetByCode(ctx context.Context, tagCode string) (*entity.DiscountedTag, error)
	// GetByCodeForUpdate locks the tag row for the enclosing transaction
	GetByCodeForUpdate(ctx context.Context, tagCode string) (*entity.DiscountedTag, error)
	Update(ctx context.Context, tag *entity.DiscountedTag) error
}

// WalletRepository defines the interface for customer wallet operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entity.Wallet) error
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error)
	// GetByCustomerIDForUpdate locks the wallet row for the enclosing
	// transaction
	GetByCustomerIDForUpdate(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error)
	Update(ctx context.Context, wallet *entity.Wallet) error
	CreateEntry(ctx context.Context, entry *entity.WalletEntry) error
	ListEntries(ctx context.Context, walletID uuid.UUID, params *pagination.PaginationParams) ([]entity.WalletEntry, int64, error)
}

// ApprovalRepository defines the interface for supervisor approval numbers
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByNumber(ctx context.Context, number string) (*entity.Approval, error)
	// GetByNumberForUpdate locks the approval row so two concurrent sales
	// cannot consume the same number
	GetByNumberForUpdate(ctx context.Context, number string) (*entity.Approval, error)
	Update(ctx context.Context, approval *entity.Approval) error
}
