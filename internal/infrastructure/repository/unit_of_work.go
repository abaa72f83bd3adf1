package repository

import (
	"context"

	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"gorm.io/gorm"
)

// NewRegistry wires every gorm repository over one database handle.
func NewRegistry(db *gorm.DB) *domainRepo.Registry {
	return &domainRepo.Registry{
		Users:           NewUserRepository(db),
		Staffs:          NewStaffRepository(db),
		RolePermissions: NewRolePermissionRepository(db),
		Customers:       NewCustomerRepository(db),
		Stores:          NewStoreRepository(db),
		Products:        NewProductRepository(db),
		StorePrices:     NewStorePriceRepository(db),
		Stocks:          NewStockRepository(db),
		StockReceives:   NewStockReceiveRepository(db),
		Variations:      NewVariationRepository(db),
		Departments:     NewDepartmentRepository(db),
		PrepaidCards:    NewPrepaidCardRepository(db),
		DiscountedTags:  NewDiscountedTagRepository(db),
		Wallets:         NewWalletRepository(db),
		Approvals:       NewApprovalRepository(db),
		Transactions:    NewTransactionRepository(db),
		Returns:         NewReturnRepository(db),
		Idempotency:     NewIdempotencyRepository(db),
	}
}

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates the atomic scope over a gorm handle. Each Within
// call opens one database transaction; the registry handed to fn runs on
// it, so FOR UPDATE locks hold until fn returns and any error rolls the
// whole scope back.
func NewUnitOfWork(db *gorm.DB) domainRepo.Atomic {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Within(ctx context.Context, fn func(ctx context.Context, reg *domainRepo.Registry) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRegistry(tx))
	})
}
