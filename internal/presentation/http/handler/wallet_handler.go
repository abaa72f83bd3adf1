package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// WalletHandler handles wallet and approval HTTP requests
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func customerIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetBalance retrieves a shopper wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	wallet, err := h.walletService.GetBalance(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Wallet retrieved successfully", wallet)
}

// Charge tops up a shopper wallet
func (h *WalletHandler) Charge(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.ChargeWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	wallet, err := h.walletService.Charge(c.Request.Context(), customerID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Wallet charged successfully", wallet)
}

// ListEntries lists the wallet ledger
func (h *WalletHandler) ListEntries(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var filter request.WalletEntryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.walletService.ListEntries(c.Request.Context(), customerID, &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Wallet entries retrieved successfully", result)
}

// IssueApproval issues a one-time supervisor approval number
func (h *WalletHandler) IssueApproval(c *gin.Context) {
	approval, err := h.walletService.IssueApproval(c.Request.Context(), GetStaffCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Approval issued successfully", approval)
}
