package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/jancode"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// ReturnService unwinds committed transactions: full returns, payment
// changes and partial returns. Partial returns and payment changes
// synthesize a resale correction through the transaction builder inside
// the same atomic scope.
type ReturnService struct {
	reg    *repository.Registry
	atomic repository.Atomic
	txns   *TransactionService
	gate   *PermissionGate
	now    func() time.Time
}

// NewReturnService creates a new return service
func NewReturnService(reg *repository.Registry, atomic repository.Atomic, txns *TransactionService, gate *PermissionGate) *ReturnService {
	return &ReturnService{
		reg:    reg,
		atomic: atomic,
		txns:   txns,
		gate:   gate,
		now:    time.Now,
	}
}

// ReturnItemInput names one removed line. Price, tax and discount
// disambiguate when the origin holds several lines of the same code.
type ReturnItemInput struct {
	Jan      string `json:"jan"`
	Price    *int64 `json:"price,omitempty"`
	Tax      *int   `json:"tax,omitempty"`
	Discount *int64 `json:"discount,omitempty"`
	Quantity int    `json:"quantity"`
}

// CreateReturnInput is one return request from a terminal. Payments are
// signed: negative amounts refund the shopper, positive amounts collect
// an additional receipt or the re-tendered total of a payment change.
type CreateReturnInput struct {
	OriginTransactionID int64
	StaffCode           string
	TerminalID          string
	ReturnType          enum.ReturnType
	Reason              string
	Restock             bool
	AddedItems          []LineInput
	RemovedItems        []ReturnItemInput
	Payments            []PaymentInput
}

// originLineBalance tracks how much of an origin line survives the
// removal matching.
type originLineBalance struct {
	line      *entity.TransactionLine
	remaining int
	removed   int
}

// CreateReturn validates and commits a return against an origin
// transaction. Everything, correction transaction included, runs in one
// atomic scope.
func (s *ReturnService) CreateReturn(ctx context.Context, input *CreateReturnInput) (*entity.ReturnTransaction, error) {
	if !input.ReturnType.IsValid() {
		return nil, apperror.NewFieldError("return_type", "return_type must be all, partial or payment_change")
	}
	if input.TerminalID == "" {
		return nil, apperror.NewFieldError("terminal_id", "terminal_id is required")
	}

	var created *entity.ReturnTransaction
	err := s.atomic.Within(ctx, func(ctx context.Context, reg *repository.Registry) error {
		sc, err := s.gate.Load(ctx, reg, input.StaffCode)
		if err != nil {
			return err
		}

		origin, err := reg.Transactions.GetByIDForUpdate(ctx, input.OriginTransactionID)
		if err != nil {
			return err
		}
		if origin == nil {
			return apperror.NewNotFoundError("Transaction")
		}
		if err := s.gate.CheckVoid(sc, origin.StoreCode); err != nil {
			return err
		}
		if origin.Status != enum.TransactionStatusSale && origin.Status != enum.TransactionStatusResale {
			return apperror.NewFieldError("origin_transaction_id", "only sale and resale transactions can be returned")
		}

		switch input.ReturnType {
		case enum.ReturnTypeAll:
			created, err = s.returnAll(ctx, reg, origin, input)
		case enum.ReturnTypePaymentChange:
			created, err = s.paymentChange(ctx, reg, sc, origin, input)
		case enum.ReturnTypePartial:
			created, err = s.returnPartial(ctx, reg, sc, origin, input)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// returnAll unwinds the whole transaction: every line mirrored as a
// negative detail, the full total refunded, every side effect reversed.
// No correction transaction is created.
func (s *ReturnService) returnAll(ctx context.Context, reg *repository.Registry, origin *entity.Transaction, input *CreateReturnInput) (*entity.ReturnTransaction, error) {
	if len(input.AddedItems) > 0 || len(input.RemovedItems) > 0 {
		return nil, apperror.NewFieldError("items", "a full return takes no added or removed items")
	}

	var refund int64
	for _, p := range input.Payments {
		if p.Amount >= 0 {
			return nil, apperror.NewFieldError("payments", "full return payments must all be refunds")
		}
		refund += -p.Amount
	}
	if refund != origin.TotalAmount {
		return nil, apperror.NewFieldError("payments", fmt.Sprintf("refunds must sum to the original total %d", origin.TotalAmount))
	}

	ret := s.newReturn(origin, input, refund)
	for i := range origin.Lines {
		line := &origin.Lines[i]
		ret.Details = append(ret.Details, entity.ReturnDetail{
			Jan:      line.Jan,
			Name:     line.Name,
			Price:    line.Price,
			Tax:      line.Tax,
			Discount: line.Discount,
			Quantity: -line.Quantity,
		})
		if err := s.reverseLine(ctx, reg, origin.StoreCode, line, line.Quantity, input.Restock); err != nil {
			return nil, err
		}
	}

	if err := s.refundWallet(ctx, reg, origin, input.Payments); err != nil {
		return nil, err
	}
	if err := reg.Returns.Create(ctx, ret); err != nil {
		return nil, err
	}
	if err := reg.Transactions.UpdateStatus(ctx, origin.ID, enum.TransactionStatusReturn, nil); err != nil {
		return nil, err
	}
	return ret, nil
}

// paymentChange swaps the tenders of a transaction without touching its
// lines: the original payments are refunded in full and an equal new set
// funds a correction that carries every line over unchanged.
func (s *ReturnService) paymentChange(ctx context.Context, reg *repository.Registry, sc *StaffContext, origin *entity.Transaction, input *CreateReturnInput) (*entity.ReturnTransaction, error) {
	if len(input.AddedItems) > 0 || len(input.RemovedItems) > 0 {
		return nil, apperror.NewFieldError("items", "a payment change takes no added or removed items")
	}

	originMethods := map[enum.PaymentMethod]bool{}
	for _, p := range origin.Payments {
		originMethods[p.Method] = true
	}

	var refund, collected int64
	var newPayments []PaymentInput
	for _, p := range input.Payments {
		if p.Amount < 0 {
			if !originMethods[p.Method] {
				return nil, apperror.NewFieldError("payments", "refund method was not used on the original transaction")
			}
			refund += -p.Amount
		} else {
			collected += p.Amount
			newPayments = append(newPayments, p)
		}
	}
	if refund != origin.TotalAmount {
		return nil, apperror.NewFieldError("payments", fmt.Sprintf("refunds must sum to the original total %d", origin.TotalAmount))
	}
	if collected < origin.TotalAmount {
		return nil, apperror.NewFieldError("payments", "new payments must cover the original total")
	}

	correction, err := s.txns.buildCorrection(ctx, reg, sc, &CreateTransactionInput{
		StoreCode:           origin.StoreCode,
		StaffCode:           input.StaffCode,
		TerminalID:          input.TerminalID,
		CustomerID:          origin.CustomerID,
		Items:               carriedItems(origin.Lines),
		Payments:            newPayments,
		originTransactionID: &origin.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.refundWallet(ctx, reg, origin, input.Payments); err != nil {
		return nil, err
	}

	ret := s.newReturn(origin, input, refund)
	ret.ModifyTransactionID = &correction.ID
	if err := reg.Returns.Create(ctx, ret); err != nil {
		return nil, err
	}
	if err := reg.Transactions.UpdateStatus(ctx, origin.ID, enum.TransactionStatusReturn, &correction.ID); err != nil {
		return nil, err
	}
	return ret, nil
}

// returnPartial removes and/or adds lines. The surviving basket is
// rebuilt as a correction funded by a carryover tender worth the money
// already collected, minus any refund.
func (s *ReturnService) returnPartial(ctx context.Context, reg *repository.Registry, sc *StaffContext, origin *entity.Transaction, input *CreateReturnInput) (*entity.ReturnTransaction, error) {
	if len(input.AddedItems) == 0 && len(input.RemovedItems) == 0 {
		return nil, apperror.NewFieldError("items", "a partial return requires added or removed items")
	}

	balances, removedValue, err := matchRemovals(origin.Lines, input.RemovedItems)
	if err != nil {
		return nil, err
	}

	// Added lines are priced here only to size the payment delta; the
	// correction build re-resolves them identically (resolution is pure).
	var addedValue int64
	if len(input.AddedItems) > 0 {
		added, err := s.txns.resolver.ResolveLines(ctx, reg, origin.StoreCode, false, input.AddedItems)
		if err != nil {
			return nil, err
		}
		for _, line := range added {
			addedValue += (line.UnitPrice - line.Discount) * int64(line.Quantity)
		}
	}

	net := addedValue - removedValue

	var refund, collected int64
	var extraPayments []PaymentInput
	for _, p := range input.Payments {
		if p.Amount < 0 {
			refund += -p.Amount
		} else {
			collected += p.Amount
			extraPayments = append(extraPayments, p)
		}
	}
	switch {
	case net < 0:
		if collected > 0 {
			return nil, apperror.NewFieldError("payments", "a refunding partial return takes no positive payments")
		}
		if refund != -net {
			return nil, apperror.NewFieldError("payments", fmt.Sprintf("refunds must sum to %d", -net))
		}
	case net > 0:
		if refund > 0 {
			return nil, apperror.NewFieldError("payments", "an additional-receipt partial return takes no refunds")
		}
		if collected < net {
			return nil, apperror.NewFieldError("payments", fmt.Sprintf("additional payments must cover %d", net))
		}
	default:
		if refund > 0 || collected > 0 {
			return nil, apperror.NewFieldError("payments", "a zero-delta partial return takes no payments")
		}
	}

	carryover := origin.TotalAmount - refund
	correctionPayments := append([]PaymentInput{{Method: enum.PaymentMethodCarryover, Amount: carryover}}, extraPayments...)

	correction, err := s.txns.buildCorrection(ctx, reg, sc, &CreateTransactionInput{
		StoreCode:           origin.StoreCode,
		StaffCode:           input.StaffCode,
		TerminalID:          input.TerminalID,
		CustomerID:          origin.CustomerID,
		Items:               append(carriedItemsFromBalances(balances), input.AddedItems...),
		Payments:            correctionPayments,
		originTransactionID: &origin.ID,
	})
	if err != nil {
		return nil, err
	}

	ret := s.newReturn(origin, input, refund)
	ret.ModifyTransactionID = &correction.ID
	for _, b := range balances {
		if b.removed == 0 {
			continue
		}
		ret.Details = append(ret.Details, entity.ReturnDetail{
			Jan:      b.line.Jan,
			Name:     b.line.Name,
			Price:    b.line.Price,
			Tax:      b.line.Tax,
			Discount: b.line.Discount,
			Quantity: -b.removed,
		})
		if err := s.reverseLine(ctx, reg, origin.StoreCode, b.line, b.removed, input.Restock); err != nil {
			return nil, err
		}
	}

	if err := s.refundWallet(ctx, reg, origin, input.Payments); err != nil {
		return nil, err
	}
	if err := reg.Returns.Create(ctx, ret); err != nil {
		return nil, err
	}
	if err := reg.Transactions.UpdateStatus(ctx, origin.ID, enum.TransactionStatusReturn, &correction.ID); err != nil {
		return nil, err
	}
	return ret, nil
}

// newReturn builds the header row shared by the three variants.
func (s *ReturnService) newReturn(origin *entity.Transaction, input *CreateReturnInput, refund int64) *entity.ReturnTransaction {
	ret := &entity.ReturnTransaction{
		OriginTransactionID: origin.ID,
		StoreCode:           origin.StoreCode,
		StaffCode:           input.StaffCode,
		TerminalID:          input.TerminalID,
		ReturnType:          input.ReturnType,
		Reason:              input.Reason,
		RefundAmount:        refund,
		Date:                s.now(),
	}
	for _, p := range input.Payments {
		ret.Refunds = append(ret.Refunds, entity.ReturnPayment{Method: p.Method, Amount: p.Amount})
	}
	return ret
}

// matchRemovals pairs removed items with origin lines. Duplicated codes
// are disambiguated by price, tax and discount when supplied; removal
// quantities may never exceed what the origin line still holds. Removing
// and adding the same code are independent deltas, never netted.
func matchRemovals(lines []entity.TransactionLine, removals []ReturnItemInput) ([]*originLineBalance, int64, error) {
	balances := make([]*originLineBalance, len(lines))
	for i := range lines {
		balances[i] = &originLineBalance{line: &lines[i], remaining: lines[i].Quantity}
	}

	var ec apperror.Collector
	var removedValue int64

	for i, rm := range removals {
		field := fmt.Sprintf("returned_items[%d]", i)
		if rm.Quantity < 1 {
			ec.Add(field, "quantity must be at least 1")
			continue
		}

		want := rm.Quantity
		for _, b := range balances {
			if want == 0 {
				break
			}
			if b.remaining == 0 || b.line.Jan != rm.Jan {
				continue
			}
			if rm.Price != nil && b.line.Price != *rm.Price {
				continue
			}
			if rm.Tax != nil && b.line.Tax != *rm.Tax {
				continue
			}
			if rm.Discount != nil && b.line.Discount != *rm.Discount {
				continue
			}
			take := want
			if take > b.remaining {
				take = b.remaining
			}
			b.remaining -= take
			b.removed += take
			want -= take
			removedValue += (b.line.Price - b.line.Discount) * int64(take)
		}
		if want > 0 {
			ec.Add(field, "return quantity exceeds the original quantity")
		}
	}

	if err := ec.Err(); err != nil {
		return nil, 0, err
	}
	return balances, removedValue, nil
}

// carriedItems converts persisted lines back into carried-over inputs.
// Burned tag codes ride along so a later return of the correction can
// still un-use them.
func carriedItems(lines []entity.TransactionLine) []LineInput {
	items := make([]LineInput, 0, len(lines))
	for i := range lines {
		items = append(items, carriedItem(&lines[i], lines[i].Quantity))
	}
	return items
}

// carriedItemsFromBalances carries forward whatever the removals left.
func carriedItemsFromBalances(balances []*originLineBalance) []LineInput {
	items := make([]LineInput, 0, len(balances))
	for _, b := range balances {
		if b.remaining <= 0 {
			continue
		}
		items = append(items, carriedItem(b.line, b.remaining))
	}
	return items
}

func carriedItem(line *entity.TransactionLine, qty int) LineInput {
	price, tax := line.Price, line.Tax
	item := LineInput{
		Code:        line.Jan,
		Name:        line.Name,
		Price:       &price,
		Tax:         &tax,
		Discount:    line.Discount,
		Quantity:    qty,
		CarriedOver: true,
	}
	if line.TagCode != nil {
		item.TagCode = *line.TagCode
	}
	return item
}

// reverseLine undoes the side effects of qty units of a settled line:
// restock for stock-bearing codes, tag un-use, card disablement.
func (s *ReturnService) reverseLine(ctx context.Context, reg *repository.Registry, storeCode string, line *entity.TransactionLine, qty int, restock bool) error {
	if restock && isStockCode(line.Jan) {
		stock, err := reg.Stocks.GetForUpdate(ctx, storeCode, line.Jan)
		if err != nil {
			return err
		}
		if err := reg.Stocks.Adjust(ctx, stock, qty); err != nil {
			return err
		}
	}

	if restock && line.TagCode != nil {
		tag, err := reg.DiscountedTags.GetByCodeForUpdate(ctx, *line.TagCode)
		if err != nil {
			return err
		}
		if tag != nil {
			tag.IsUsed = false
			tag.UsedAt = nil
			if err := reg.DiscountedTags.Update(ctx, tag); err != nil {
				return err
			}
		}
	}

	if isCardCode(line.Jan) {
		card, err := reg.PrepaidCards.GetByCodeForUpdate(ctx, line.Jan)
		if err != nil {
			return err
		}
		if card == nil || card.Status != enum.CardStatusSold {
			return apperror.NewConflictError("prepaid card is not in a returnable state")
		}
		card.Status = enum.CardStatusDisabledAfterSale
		if err := reg.PrepaidCards.Update(ctx, card); err != nil {
			return err
		}
	}

	return nil
}

// refundWallet deposits wallet refunds back onto the payer's wallet.
func (s *ReturnService) refundWallet(ctx context.Context, reg *repository.Registry, origin *entity.Transaction, payments []PaymentInput) error {
	var amount int64
	for _, p := range payments {
		if p.Method == enum.PaymentMethodWallet && p.Amount < 0 {
			amount += -p.Amount
		}
	}
	if amount == 0 {
		return nil
	}
	if origin.CustomerID == nil {
		return apperror.NewFieldError("payments", "the original transaction has no wallet to refund")
	}

	wallet, err := reg.Wallets.GetByCustomerIDForUpdate(ctx, *origin.CustomerID)
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
	return reg.Wallets.CreateEntry(ctx, &entity.WalletEntry{
		WalletID:      wallet.ID,
		Amount:        amount,
		BalanceAfter:  wallet.Balance,
		Description:   "refund",
		TransactionID: &origin.ID,
	})
}

// isStockCode reports whether a settled code debited a stock row.
func isStockCode(code string) bool {
	return (len(code) == 8 || len(code) == 13) && jancode.IsDigits(code)
}

// isCardCode reports whether a settled code is a prepaid card.
func isCardCode(code string) bool {
	return len(code) == prepaidCardCodeLen && jancode.IsDigits(code) && code[:2] == departmentMarker
}

// Get returns a return transaction with its details and payments.
func (s *ReturnService) Get(ctx context.Context, staffCode string, id int64) (*entity.ReturnTransaction, error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	ret, err := s.reg.Returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return transaction")
	}
	if !sc.Permissions.Global && ret.StoreCode != sc.AffiliateStore {
		return nil, apperror.NewPermissionError("staff is not affiliated with this store")
	}
	return ret, nil
}

// List returns return transactions matching the filters, scoped to the
// caller's store unless they hold the global permission.
func (s *ReturnService) List(ctx context.Context, staffCode string, params *repository.ReturnFilterParams) (*pagination.PaginatedResult[entity.ReturnTransaction], error) {
	sc, err := s.gate.Load(ctx, s.reg, staffCode)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = &repository.ReturnFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if !sc.Permissions.Global {
		params.StoreCode = sc.AffiliateStore
	}

	items, total, err := s.reg.Returns.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}
