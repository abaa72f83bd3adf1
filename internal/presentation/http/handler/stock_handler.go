package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// StockHandler handles stock-related HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List handles per-store stock listing
func (h *StockHandler) List(c *gin.Context) {
	var filter request.StockFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.stockService.ListStocks(c.Request.Context(), GetStaffCode(c), c.Param("store_code"), &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stocks retrieved successfully", result)
}

// Receive books a goods receipt
func (h *StockHandler) Receive(c *gin.Context) {
	var req request.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.ReceiveItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.ReceiveItemInput{
			Jan:             it.Jan,
			AdditionalStock: it.AdditionalStock,
		})
	}

	history, err := h.stockService.ReceiveStock(c.Request.Context(), &service.ReceiveStockInput{
		StoreCode: req.StoreCode,
		StaffCode: GetStaffCode(c),
		Items:     items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock received successfully", history)
}

// History lists goods-receipt events for a store
func (h *StockHandler) History(c *gin.Context) {
	var filter request.StockFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.stockService.ListReceiveHistory(c.Request.Context(), GetStaffCode(c), c.Param("store_code"), &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receive history retrieved successfully", result)
}
