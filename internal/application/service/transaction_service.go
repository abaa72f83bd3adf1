package service

import (
	"context"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionService settles baskets into committed transactions. All
// reads-for-update, writes and side effects of one settlement run inside
// one atomic scope.
type TransactionService struct {
	reg      *repository.Registry
	atomic   repository.Atomic
	resolver *LineResolver
	gate     *PermissionGate
	now      func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(reg *repository.Registry, atomic repository.Atomic, resolver *LineResolver, gate *PermissionGate) *TransactionService {
	return &TransactionService{
		reg:      reg,
		atomic:   atomic,
		resolver: resolver,
		gate:     gate,
		now:      time.Now,
	}
}

// CreateTransactionInput is one settlement request from a terminal.
type CreateTransactionInput struct {
	StoreCode      string
	StaffCode      string
	TerminalID     string
	Status         enum.TransactionStatus
	CustomerID     *uuid.UUID
	ApprovalNumber *string
	Items          []LineInput
	Payments       []PaymentInput

	// originTransactionID is set internally when a return rebuilds the
	// remaining basket as a correction.
	originTransactionID *int64
}

// Create validates and commits a sale or training transaction.
func (s *TransactionService) Create(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	if !input.Status.Registrable() {
		return nil, apperror.NewFieldError("status", "status must be sale or training")
	}

	var created *entity.Transaction
	err := s.atomic.Within(ctx, func(ctx context.Context, reg *repository.Registry) error {
		sc, err := s.gate.Load(ctx, reg, input.StaffCode)
		if err != nil {
			return err
		}
		if err := s.gate.CheckRegister(sc, input.StoreCode); err != nil {
			return err
		}
		created, err = s.build(ctx, reg, sc, input, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// buildCorrection rebuilds a basket as a resale transaction inside an
// already-open atomic scope. The caller has done the permission checks;
// carryover tenders are accepted and approval handling is skipped.
func (s *TransactionService) buildCorrection(ctx context.Context, reg *repository.Registry, sc *StaffContext, input *CreateTransactionInput) (*entity.Transaction, error) {
	input.Status = enum.TransactionStatusResale
	return s.build(ctx, reg, sc, input, true)
}

// build runs the settlement state machine: resolve lines, compute totals,
// validate approval and payments, persist, then apply side effects. Any
// error rejects the whole basket; nothing is half-committed because the
// caller's atomic scope rolls back.
func (s *TransactionService) build(ctx context.Context, reg *repository.Registry, sc *StaffContext, input *CreateTransactionInput, relaxed bool) (*entity.Transaction, error) {
	store, err := reg.Stores.GetByCode(ctx, input.StoreCode)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store " + input.StoreCode)
	}
	if input.TerminalID == "" {
		return nil, apperror.NewFieldError("terminal_id", "terminal_id is required")
	}

	lines, err := s.resolver.ResolveLines(ctx, reg, input.StoreCode, relaxed, input.Items)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.NeedsChangePrice {
			if err := s.gate.CheckChangePrice(sc); err != nil {
				return nil, err
			}
			break
		}
	}

	totals := CalculateTotals(lines)

	var cardSubtotal int64
	for _, line := range lines {
		if line.Kind == LineKindPrepaidCard {
			cardSubtotal += (line.UnitPrice - line.Discount) * int64(line.Quantity)
		}
	}

	training := input.Status == enum.TransactionStatusTraining

	wallet, walletBalance, err := s.loadWallet(ctx, reg, input, training)
	if err != nil {
		return nil, err
	}

	approval, err := s.checkApproval(ctx, reg, input, relaxed, training)
	if err != nil {
		return nil, err
	}

	alloc, err := AllocatePayments(totals.TotalAmount, cardSubtotal, input.Payments, walletBalance, relaxed)
	if err != nil {
		return nil, err
	}

	tx := &entity.Transaction{
		StoreCode:           input.StoreCode,
		StaffCode:           input.StaffCode,
		TerminalID:          input.TerminalID,
		Status:              input.Status,
		Date:                s.now(),
		TotalQuantity:       totals.TotalQuantity,
		TotalAmount:         totals.TotalAmount,
		TaxAmount:           totals.TaxAmount,
		TotalTax10:          totals.Tax10,
		TotalTax8:           totals.Tax8,
		DiscountAmount:      totals.DiscountAmount,
		Deposit:             alloc.Deposit,
		Change:              alloc.Change,
		ApprovalNumber:      input.ApprovalNumber,
		CustomerID:          input.CustomerID,
		OriginTransactionID: input.originTransactionID,
	}
	for i, line := range lines {
		var tagCode *string
		if line.TagCode != "" {
			tc := line.TagCode
			tagCode = &tc
		}
		tx.Lines = append(tx.Lines, entity.TransactionLine{
			LineNo:      i + 1,
			Jan:         line.Code,
			Name:        line.Name,
			Price:       line.UnitPrice,
			Tax:         line.TaxRate,
			Discount:    line.Discount,
			Quantity:    line.Quantity,
			CarriedOver: line.CarriedOver,
			TagCode:     tagCode,
		})
	}
	for _, p := range input.Payments {
		tx.Payments = append(tx.Payments, entity.Payment{Method: p.Method, Amount: p.Amount})
	}

	if err := reg.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	if training {
		return tx, nil
	}

	if err := s.applySideEffects(ctx, reg, tx, lines, input, alloc, wallet); err != nil {
		return nil, err
	}

	if approval != nil && !relaxed {
		now := s.now()
		approval.IsUsed = true
		approval.UsedAt = &now
		if err := reg.Approvals.Update(ctx, approval); err != nil {
			return nil, err
		}
	}

	return tx, nil
}

// loadWallet locks the payer's wallet when a wallet tender is present.
// Training runs read the balance without locking.
func (s *TransactionService) loadWallet(ctx context.Context, reg *repository.Registry, input *CreateTransactionInput, training bool) (*entity.Wallet, int64, error) {
	var usesWallet bool
	for _, p := range input.Payments {
		if p.Method == enum.PaymentMethodWallet {
			usesWallet = true
			break
		}
	}
	if !usesWallet {
		return nil, 0, nil
	}
	if input.CustomerID == nil {
		return nil, 0, apperror.NewFieldError("payments", "wallet payment requires a customer")
	}

	var wallet *entity.Wallet
	var err error
	if training {
		wallet, err = reg.Wallets.GetByCustomerID(ctx, *input.CustomerID)
	} else {
		wallet, err = reg.Wallets.GetByCustomerIDForUpdate(ctx, *input.CustomerID)
	}
	if err != nil {
		return nil, 0, err
	}
	if wallet == nil {
		return nil, 0, apperror.NewNotFoundError("Wallet")
	}
	return wallet, wallet.Balance, nil
}

// checkApproval validates a supplied approval number. Both sale and
// training runs validate it; only a committed sale consumes it, and
// corrections skip the whole mechanism.
func (s *TransactionService) checkApproval(ctx context.Context, reg *repository.Registry, input *CreateTransactionInput, relaxed, training bool) (*entity.Approval, error) {
	if relaxed || input.ApprovalNumber == nil {
		return nil, nil
	}

	var approval *entity.Approval
	var err error
	if training {
		approval, err = reg.Approvals.GetByNumber(ctx, *input.ApprovalNumber)
	} else {
		approval, err = reg.Approvals.GetByNumberForUpdate(ctx, *input.ApprovalNumber)
	}
	if err != nil {
		return nil, err
	}
	if approval == nil || approval.IsUsed {
		return nil, apperror.NewFieldError("approval_number", "approval number is invalid or already used")
	}
	return approval, nil
}

// applySideEffects debits stock, burns tags, activates cards and debits
// the wallet for a committed sale or resale.
func (s *TransactionService) applySideEffects(ctx context.Context, reg *repository.Registry, tx *entity.Transaction, lines []ResolvedLine, input *CreateTransactionInput, alloc *Allocation, wallet *entity.Wallet) error {
	now := s.now()

	for _, line := range lines {
		if line.StockJan != "" {
			stock, err := reg.Stocks.GetForUpdate(ctx, input.StoreCode, line.StockJan)
			if err != nil {
				return err
			}
			if err := reg.Stocks.Adjust(ctx, stock, -line.Quantity); err != nil {
				return err
			}
		}

		// Carried-over tag lines already burned their tag on the origin
		// commit; the code rides along only so a later return can undo it.
		if line.TagCode != "" && !line.CarriedOver {
			tag, err := reg.DiscountedTags.GetByCodeForUpdate(ctx, line.TagCode)
			if err != nil {
				return err
			}
			if tag == nil || tag.IsUsed {
				return apperror.NewConflictError("clearance tag is already used")
			}
			tag.IsUsed = true
			tag.UsedAt = &now
			if err := reg.DiscountedTags.Update(ctx, tag); err != nil {
				return err
			}
		}

		if line.Kind == LineKindPrepaidCard {
			card, err := reg.PrepaidCards.GetByCodeForUpdate(ctx, line.Code)
			if err != nil {
				return err
			}
			if card == nil || !card.Status.Sellable() {
				return apperror.NewConflictError("prepaid card is not sellable")
			}
			card.Status = enum.CardStatusSold
			card.BuyerID = input.CustomerID
			card.TransactionID = &tx.ID
			card.SoldAt = &now
			if err := reg.PrepaidCards.Update(ctx, card); err != nil {
				return err
			}
		}
	}

	if alloc.WalletUsed > 0 {
		if wallet.Balance < alloc.WalletUsed {
			return apperror.NewConflictError("wallet balance is insufficient")
		}
		wallet.Balance -= alloc.WalletUsed
		if err := reg.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		entry := &entity.WalletEntry{
			WalletID:      wallet.ID,
			Amount:        -alloc.WalletUsed,
			BalanceAfter:  wallet.Balance,
			Description:   "payment",
			TransactionID: &tx.ID,
		}
		if err := reg.Wallets.CreateEntry(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

// Get returns a transaction with its lines and payments, scoped to the
// caller's store unless they hold the global permission.
func (s *TransactionService) Get(ctx context.Context, staffCode string, id int64) (*entity.Transaction, error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	tx, err := s.reg.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if !sc.Permissions.Global && tx.StoreCode != sc.AffiliateStore {
		return nil, apperror.NewPermissionError("staff is not affiliated with this store")
	}
	return tx, nil
}

// List returns transactions matching the filters, scoped to the caller's
// store unless they hold the global permission.
func (s *TransactionService) List(ctx context.Context, staffCode string, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = &repository.TransactionFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if !sc.Permissions.Global {
		params.StoreCode = sc.AffiliateStore
	}

	items, total, err := s.reg.Transactions.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}
