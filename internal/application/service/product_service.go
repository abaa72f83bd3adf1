package service

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/jancode"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// ProductService manages the catalog, store price overrides and product
// variations.
type ProductService struct {
	reg *repository.Registry
}

// NewProductService creates a new product service
func NewProductService(reg *repository.Registry) *ProductService {
	return &ProductService{reg: reg}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Jan                string
	Name               string
	Price              int64
	Tax                int
	Status             string
	DisableChangeTax   bool
	DisableChangePrice bool
}

// CreateProduct registers a catalog product. The JAN check digit is
// validated here, once, so sale-time lookups can trust the code.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var ec apperror.Collector
	if !jancode.Valid(input.Jan) {
		ec.Add("jan", "jan must be a valid 8 or 13 digit code")
	}
	if input.Name == "" {
		ec.Add("name", "name is required")
	}
	if input.Price < 0 {
		ec.Add("price", "price must not be negative")
	}
	if input.Tax != 0 && input.Tax != 8 && input.Tax != 10 {
		ec.Add("tax", "tax must be 0, 8 or 10")
	}
	status := enum.ProductStatus(input.Status)
	if input.Status == "" {
		status = enum.ProductStatusInDeal
	} else if !status.IsValid() {
		ec.Add("status", "unknown product status")
	}
	if err := ec.Err(); err != nil {
		return nil, err
	}

	existing, err := s.reg.Products.GetByJan(ctx, input.Jan)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product already exists")
	}

	product := &entity.Product{
		Jan:                input.Jan,
		Name:               input.Name,
		Price:              input.Price,
		Tax:                input.Tax,
		Status:             status,
		DisableChangeTax:   input.DisableChangeTax,
		DisableChangePrice: input.DisableChangePrice,
	}
	if err := s.reg.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns one catalog product
func (s *ProductService) GetProduct(ctx context.Context, jan string) (*entity.Product, error) {
	product, err := s.reg.Products.GetByJan(ctx, jan)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name               *string
	Price              *int64
	Tax                *int
	Status             *string
	DisableChangeTax   *bool
	DisableChangePrice *bool
}

// UpdateProduct updates a catalog product
func (s *ProductService) UpdateProduct(ctx context.Context, jan string, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, jan)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewFieldError("price", "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Tax != nil {
		if *input.Tax != 0 && *input.Tax != 8 && *input.Tax != 10 {
			return nil, apperror.NewFieldError("tax", "tax must be 0, 8 or 10")
		}
		product.Tax = *input.Tax
	}
	if input.Status != nil {
		status := enum.ProductStatus(*input.Status)
		if !status.IsValid() {
			return nil, apperror.NewFieldError("status", "unknown product status")
		}
		product.Status = status
	}
	if input.DisableChangeTax != nil {
		product.DisableChangeTax = *input.DisableChangeTax
	}
	if input.DisableChangePrice != nil {
		product.DisableChangePrice = *input.DisableChangePrice
	}

	if err := s.reg.Products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts returns catalog products matching the filters
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params == nil {
		params = &repository.ProductFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.reg.Products.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// SetStorePrice upserts a per-store price override
func (s *ProductService) SetStorePrice(ctx context.Context, storeCode, jan string, price int64) (*entity.StorePrice, error) {
	if price < 0 {
		return nil, apperror.NewFieldError("price", "price must not be negative")
	}
	if _, err := s.GetProduct(ctx, jan); err != nil {
		return nil, err
	}
	store, err := s.reg.Stores.GetByCode(ctx, storeCode)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	override := &entity.StorePrice{StoreCode: storeCode, Jan: jan, Price: price}
	if err := s.reg.StorePrices.Upsert(ctx, override); err != nil {
		return nil, err
	}
	return override, nil
}

// DeleteStorePrice removes a per-store price override
func (s *ProductService) DeleteStorePrice(ctx context.Context, storeCode, jan string) error {
	return s.reg.StorePrices.Delete(ctx, storeCode, jan)
}

// GetVariation returns a variation group with its member products
func (s *ProductService) GetVariation(ctx context.Context, instoreJan string) (*entity.ProductVariation, error) {
	variation, err := s.reg.Variations.GetByInstoreJan(ctx, instoreJan)
	if err != nil {
		return nil, err
	}
	if variation == nil {
		return nil, apperror.NewNotFoundError("Product variation")
	}
	return variation, nil
}
