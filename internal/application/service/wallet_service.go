package service

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/Senshu-NEst/NEst-backend/pkg/utils"
	"github.com/google/uuid"
)

// WalletService manages customer stored-value balances and supervisor
// approval numbers.
type WalletService struct {
	reg    *repository.Registry
	atomic repository.Atomic
	gate   *PermissionGate
}

// NewWalletService creates a new wallet service
func NewWalletService(reg *repository.Registry, atomic repository.Atomic, gate *PermissionGate) *WalletService {
	return &WalletService{reg: reg, atomic: atomic, gate: gate}
}

// GetBalance returns a customer's wallet with its current balance
func (s *WalletService) GetBalance(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error) {
	wallet, err := s.reg.Wallets.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.NewNotFoundError("Wallet")
	}
	return wallet, nil
}

// Charge deposits money onto a customer's wallet and writes the ledger
// entry in the same atomic scope.
func (s *WalletService) Charge(ctx context.Context, customerID uuid.UUID, amount int64) (*entity.Wallet, error) {
	if amount <= 0 {
		return nil, apperror.NewFieldError("amount", "charge amount must be positive")
	}

	var charged *entity.Wallet
	err := s.atomic.Within(ctx, func(ctx context.Context, reg *repository.Registry) error {
		wallet, err := reg.Wallets.GetByCustomerIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return apperror.NewNotFoundError("Wallet")
		}
		wallet.Balance += amount
		if err := reg.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		if err := reg.Wallets.CreateEntry(ctx, &entity.WalletEntry{
			WalletID:     wallet.ID,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Description:  "charge",
		}); err != nil {
			return err
		}
		charged = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return charged, nil
}

// ListEntries returns a wallet's ledger
func (s *WalletService) ListEntries(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.WalletEntry], error) {
	wallet, err := s.GetBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	items, total, err := s.reg.Wallets.ListEntries(ctx, wallet.ID, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// IssueApproval issues a fresh 8-digit approval number on behalf of a
// supervisor. Only staff with the void permission may issue one.
func (s *WalletService) IssueApproval(ctx context.Context, staffCode string) (*entity.Approval, error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	if !sc.Permissions.Void {
		return nil, apperror.NewPermissionError("staff may not issue approval numbers")
	}

	number, err := utils.GenerateApprovalNumber()
	if err != nil {
		return nil, err
	}
	approval := &entity.Approval{
		ApprovalNumber: number,
		IssuedBy:       staffCode,
	}
	if err := s.reg.Approvals.Create(ctx, approval); err != nil {
		return nil, err
	}
	return approval, nil
}
