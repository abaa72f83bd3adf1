package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// ReturnHandler handles return and correction HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create registers a return against an origin transaction
func (h *ReturnHandler) Create(c *gin.Context) {
	var req request.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	removed := make([]service.ReturnItemInput, 0, len(req.ReturnedItems))
	for _, it := range req.ReturnedItems {
		removed = append(removed, service.ReturnItemInput{
			Jan:      it.Jan,
			Price:    it.Price,
			Tax:      it.Tax,
			Discount: it.Discount,
			Quantity: it.Quantity,
		})
	}

	payments := make([]service.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, service.PaymentInput{
			Method: enum.PaymentMethod(p.PaymentMethod),
			Amount: p.Amount,
		})
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), &service.CreateReturnInput{
		OriginTransactionID: req.OriginTransactionID,
		StaffCode:           GetStaffCode(c),
		TerminalID:          req.TerminalID,
		ReturnType:          enum.ReturnType(req.ReturnType),
		Reason:              req.Reason,
		Restock:             req.Restock,
		AddedItems:          toLineInputs(req.AddedItems),
		RemovedItems:        removed,
		Payments:            payments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Return created successfully", ret)
}

// Get retrieves one return with its details and refunds
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.Get(c.Request.Context(), GetStaffCode(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return retrieved successfully", ret)
}

// List handles return listing with filters
func (h *ReturnHandler) List(c *gin.Context) {
	var filter request.ReturnFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.returnService.List(c.Request.Context(), GetStaffCode(c), &repository.ReturnFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		StoreCode: filter.StoreCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}
