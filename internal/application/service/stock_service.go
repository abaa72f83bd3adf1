package service

import (
	"context"
	"fmt"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// StockService lists stock and books goods receipts.
type StockService struct {
	reg    *repository.Registry
	atomic repository.Atomic
	gate   *PermissionGate
}

// NewStockService creates a new stock service
func NewStockService(reg *repository.Registry, atomic repository.Atomic, gate *PermissionGate) *StockService {
	return &StockService{reg: reg, atomic: atomic, gate: gate}
}

// ListStocks returns the stock rows of a store, scoped to the caller's
// store unless they hold the global permission.
func (s *StockService) ListStocks(ctx context.Context, staffCode, storeCode string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Stock], error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	if storeCode == "" || !sc.Permissions.Global {
		storeCode = sc.AffiliateStore
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	items, total, err := s.reg.Stocks.ListByStore(ctx, storeCode, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// ReceiveItemInput is one received product
type ReceiveItemInput struct {
	Jan             string `json:"jan"`
	AdditionalStock int    `json:"additional_stock"`
}

// ReceiveStockInput represents one goods-receipt event
type ReceiveStockInput struct {
	StoreCode string
	StaffCode string
	Items     []ReceiveItemInput
}

// ReceiveStock books a goods receipt: every item's stock is credited and
// a history row records the event. The whole receipt commits atomically.
func (s *StockService) ReceiveStock(ctx context.Context, input *ReceiveStockInput) (*entity.StockReceiveHistory, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}

	var history *entity.StockReceiveHistory
	err := s.atomic.Within(ctx, func(ctx context.Context, reg *repository.Registry) error {
		sc, err := s.gate.Load(ctx, reg, input.StaffCode)
		if err != nil {
			return err
		}
		if err := s.gate.CheckStockReceive(sc, input.StoreCode); err != nil {
			return err
		}

		var ec apperror.Collector
		for i, item := range input.Items {
			field := fmt.Sprintf("items[%d]", i)
			if item.AdditionalStock == 0 {
				ec.Add(field, "additional_stock must not be zero")
				continue
			}
			product, err := reg.Products.GetByJan(ctx, item.Jan)
			if err != nil {
				return err
			}
			if product == nil {
				ec.Add(field, "unknown product "+item.Jan)
			}
		}
		if err := ec.Err(); err != nil {
			return err
		}

		history = &entity.StockReceiveHistory{
			StoreCode: input.StoreCode,
			StaffCode: input.StaffCode,
		}
		for _, item := range input.Items {
			history.Items = append(history.Items, entity.StockReceiveHistoryItem{
				Jan:             item.Jan,
				AdditionalStock: item.AdditionalStock,
			})
		}
		if err := reg.StockReceives.Create(ctx, history); err != nil {
			return err
		}

		for _, item := range input.Items {
			stock, err := reg.Stocks.GetForUpdate(ctx, input.StoreCode, item.Jan)
			if err != nil {
				return err
			}
			if err := reg.Stocks.Adjust(ctx, stock, item.AdditionalStock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ListReceiveHistory returns past goods receipts of a store
func (s *StockService) ListReceiveHistory(ctx context.Context, staffCode, storeCode string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockReceiveHistory], error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	if storeCode == "" || !sc.Permissions.Global {
		storeCode = sc.AffiliateStore
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	items, total, err := s.reg.StockReceives.ListByStore(ctx, storeCode, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}
