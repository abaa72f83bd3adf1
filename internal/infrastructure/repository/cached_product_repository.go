package repository

import (
	"context"
	"log"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/infrastructure/cache"
)

// cachedProductRepository decorates a product repository with a
// read-through cache on single-code lookups. Cache failures degrade to
// the database, never to an error.
type cachedProductRepository struct {
	inner domainRepo.ProductRepository
	cache cache.ProductCache
	ttl   time.Duration
}

// NewCachedProductRepository wraps a product repository with a cache
func NewCachedProductRepository(inner domainRepo.ProductRepository, c cache.ProductCache, ttl time.Duration) domainRepo.ProductRepository {
	return &cachedProductRepository{inner: inner, cache: c, ttl: ttl}
}

func (r *cachedProductRepository) GetByJan(ctx context.Context, jan string) (*entity.Product, error) {
	if product, ok, err := r.cache.Get(ctx, jan); err != nil {
		log.Printf("product cache read failed for %s: %v", jan, err)
	} else if ok {
		return product, nil
	}

	product, err := r.inner.GetByJan(ctx, jan)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if err := r.cache.Set(ctx, product, r.ttl); err != nil {
			log.Printf("product cache write failed for %s: %v", jan, err)
		}
	}
	return product, nil
}

func (r *cachedProductRepository) GetByJans(ctx context.Context, jans []string) ([]entity.Product, error) {
	return r.inner.GetByJans(ctx, jans)
}

func (r *cachedProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := r.inner.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.Jan)
	return nil
}

func (r *cachedProductRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if err := r.inner.CreateBatch(ctx, products); err != nil {
		return err
	}
	for i := range products {
		r.invalidate(ctx, products[i].Jan)
	}
	return nil
}

func (r *cachedProductRepository) Update(ctx context.Context, product *entity.Product) error {
	if err := r.inner.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.Jan)
	return nil
}

func (r *cachedProductRepository) Delete(ctx context.Context, jan string) error {
	if err := r.inner.Delete(ctx, jan); err != nil {
		return err
	}
	r.invalidate(ctx, jan)
	return nil
}

func (r *cachedProductRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	return r.inner.List(ctx, params)
}

func (r *cachedProductRepository) invalidate(ctx context.Context, jan string) {
	if err := r.cache.Invalidate(ctx, jan); err != nil {
		log.Printf("product cache invalidation failed for %s: %v", jan, err)
	}
}
