package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// TransactionHandler handles settlement HTTP requests
type TransactionHandler struct {
	txnService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// Create registers a sale or training transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid user_id")
			return
		}
		customerID = &id
	}

	txn, err := h.txnService.Create(c.Request.Context(), &service.CreateTransactionInput{
		StoreCode:      req.StoreCode,
		StaffCode:      GetStaffCode(c),
		TerminalID:     req.TerminalID,
		Status:         enum.TransactionStatus(req.Status),
		CustomerID:     customerID,
		ApprovalNumber: req.ApprovalNumber,
		Items:          toLineInputs(req.Items),
		Payments:       toPaymentInputs(req.Payments),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", txn)
}

// Get retrieves one transaction with its lines and payments
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.txnService.Get(c.Request.Context(), GetStaffCode(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// List handles transaction listing with filters
func (h *TransactionHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		StoreCode: filter.StoreCode,
		StaffCode: filter.StaffCode,
		Status:    filter.Status,
	}
	params.DateFrom = parseDate(filter.DateFrom)
	params.DateTo = parseDate(filter.DateTo)

	result, err := h.txnService.List(c.Request.Context(), GetStaffCode(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

func toLineInputs(items []request.TransactionLineRequest) []service.LineInput {
	out := make([]service.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, service.LineInput{
			Code:        it.Jan,
			Name:        it.Name,
			Price:       it.Price,
			Tax:         it.Tax,
			Discount:    it.Discount,
			Quantity:    it.Quantity,
			CarriedOver: it.OriginalProduct,
		})
	}
	return out
}

func toPaymentInputs(payments []request.PaymentRequest) []service.PaymentInput {
	out := make([]service.PaymentInput, 0, len(payments))
	for _, p := range payments {
		out = append(out, service.PaymentInput{
			Method: enum.PaymentMethod(p.PaymentMethod),
			Amount: p.Amount,
		})
	}
	return out
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}
