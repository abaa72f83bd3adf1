package repository

import (
	"context"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// TransactionRepository defines the interface for settled transactions
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	// GetByID preloads lines and payments
	GetByID(ctx context.Context, id int64) (*entity.Transaction, error)
	// GetByIDForUpdate locks the transaction row while a return unwinds it
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error)
	// UpdateStatus rewrites status and the forward correction link
	UpdateStatus(ctx context.Context, id int64, status enum.TransactionStatus, correctionLinkID *int64) error
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	StoreCode  string
	StaffCode  string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ReturnRepository defines the interface for return transactions
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.ReturnTransaction) error
	GetByID(ctx context.Context, id int64) (*entity.ReturnTransaction, error)
	ListByOrigin(ctx context.Context, originTransactionID int64) ([]entity.ReturnTransaction, error)
	List(ctx context.Context, params *ReturnFilterParams) ([]entity.ReturnTransaction, int64, error)
}

// ReturnFilterParams contains filtering parameters for return queries
type ReturnFilterParams struct {
	Pagination *pagination.PaginationParams
	StoreCode  string
	DateFrom   *time.Time
	DateTo     *time.Time
}
