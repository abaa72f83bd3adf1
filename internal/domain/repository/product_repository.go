package repository

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog product operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByJan(ctx context.Context, jan string) (*entity.Product, error)
	// GetByJans retrieves multiple products in a single query (prevents N+1)
	GetByJans(ctx context.Context, jans []string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, jan string) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     string
	SortBy     string
	SortOrder  string
}

// StorePriceRepository manages per-store price overrides
type StorePriceRepository interface {
	Get(ctx context.Context, storeCode, jan string) (*entity.StorePrice, error)
	// GetForStore retrieves every override a store carries for the given jans
	GetForStore(ctx context.Context, storeCode string, jans []string) ([]entity.StorePrice, error)
	Upsert(ctx context.Context, price *entity.StorePrice) error
	Delete(ctx context.Context, storeCode, jan string) error
}

// StockRepository manages per-store stock levels
type StockRepository interface {
	Get(ctx context.Context, storeCode, jan string) (*entity.Stock, error)
	// GetForUpdate locks the stock row for the remainder of the enclosing
	// transaction; a missing row is created at zero
	GetForUpdate(ctx context.Context, storeCode, jan string) (*entity.Stock, error)
	// Adjust applies a signed delta to the locked row
	Adjust(ctx context.Context, stock *entity.Stock, delta int) error
	ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.Stock, int64, error)
}

// StockReceiveRepository records goods-receipt events
type StockReceiveRepository interface {
	Create(ctx context.Context, history *entity.StockReceiveHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockReceiveHistory, error)
	ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.StockReceiveHistory, int64, error)
}

// VariationRepository reads product variation groupings
type VariationRepository interface {
	GetByInstoreJan(ctx context.Context, instoreJan string) (*entity.ProductVariation, error)
	Create(ctx context.Context, variation *entity.ProductVariation) error
}
