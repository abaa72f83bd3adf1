package repository

import (
	"context"
	"errors"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(products, 100).Error
}

func (r *productRepository) GetByJan(ctx context.Context, jan string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "jan = ?", jan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByJans retrieves multiple products in a single query
func (r *productRepository) GetByJans(ctx context.Context, jans []string) ([]entity.Product, error) {
	if len(jans) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).Where("jan IN ?", jans).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, jan string) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "jan = ?", jan).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR jan LIKE ?", search, search)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "jan"
	}
	order := sortBy
	if params.SortOrder == "desc" {
		order += " DESC"
	}

	err := query.Order(order).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&products).Error
	return products, total, err
}

type storePriceRepository struct {
	db *gorm.DB
}

// NewStorePriceRepository creates a new store price repository
func NewStorePriceRepository(db *gorm.DB) domainRepo.StorePriceRepository {
	return &storePriceRepository{db: db}
}

func (r *storePriceRepository) Get(ctx context.Context, storeCode, jan string) (*entity.StorePrice, error) {
	var price entity.StorePrice
	err := r.db.WithContext(ctx).
		First(&price, "store_code = ? AND jan = ?", storeCode, jan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &price, err
}

func (r *storePriceRepository) GetForStore(ctx context.Context, storeCode string, jans []string) ([]entity.StorePrice, error) {
	if len(jans) == 0 {
		return []entity.StorePrice{}, nil
	}
	var prices []entity.StorePrice
	err := r.db.WithContext(ctx).
		Where("store_code = ? AND jan IN ?", storeCode, jans).
		Find(&prices).Error
	return prices, err
}

func (r *storePriceRepository) Upsert(ctx context.Context, price *entity.StorePrice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_code"}, {Name: "jan"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(price).Error
}

func (r *storePriceRepository) Delete(ctx context.Context, storeCode, jan string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.StorePrice{}, "store_code = ? AND jan = ?", storeCode, jan).Error
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Get(ctx context.Context, storeCode, jan string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		First(&stock, "store_code = ? AND jan = ?", storeCode, jan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stock, err
}

// GetForUpdate locks the row with FOR UPDATE; a missing row is created at
// zero so the lock always lands on a real row.
func (r *stockRepository) GetForUpdate(ctx context.Context, storeCode, jan string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stock, "store_code = ? AND jan = ?", storeCode, jan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stock = entity.Stock{StoreCode: storeCode, Jan: jan, Stock: 0}
		if err := r.db.WithContext(ctx).Create(&stock).Error; err != nil {
			return nil, err
		}
		err = r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&stock, "store_code = ? AND jan = ?", storeCode, jan).Error
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) Adjust(ctx context.Context, stock *entity.Stock, delta int) error {
	stock.Stock += delta
	return r.db.WithContext(ctx).Save(stock).Error
}

func (r *stockRepository) ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.Stock, int64, error) {
	var stocks []entity.Stock
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Stock{}).Where("store_code = ?", storeCode)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("jan").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&stocks).Error
	return stocks, total, err
}

type stockReceiveRepository struct {
	db *gorm.DB
}

// NewStockReceiveRepository creates a new stock receive history repository
func NewStockReceiveRepository(db *gorm.DB) domainRepo.StockReceiveRepository {
	return &stockReceiveRepository{db: db}
}

func (r *stockReceiveRepository) Create(ctx context.Context, history *entity.StockReceiveHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *stockReceiveRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockReceiveHistory, error) {
	var history entity.StockReceiveHistory
	err := r.db.WithContext(ctx).Preload("Items").First(&history, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &history, err
}

func (r *stockReceiveRepository) ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.StockReceiveHistory, int64, error) {
	var histories []entity.StockReceiveHistory
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockReceiveHistory{}).Where("store_code = ?", storeCode)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Items").
		Order("received_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&histories).Error
	return histories, total, err
}

type variationRepository struct {
	db *gorm.DB
}

// NewVariationRepository creates a new product variation repository
func NewVariationRepository(db *gorm.DB) domainRepo.VariationRepository {
	return &variationRepository{db: db}
}

func (r *variationRepository) GetByInstoreJan(ctx context.Context, instoreJan string) (*entity.ProductVariation, error) {
	var variation entity.ProductVariation
	err := r.db.WithContext(ctx).
		Preload("Details").Preload("Details.Product").
		First(&variation, "instore_jan = ?", instoreJan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &variation, err
}

func (r *variationRepository) Create(ctx context.Context, variation *entity.ProductVariation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}
