package service

import (
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
)

// PaymentInput is one tender as keyed in at the terminal.
type PaymentInput struct {
	Method enum.PaymentMethod `json:"payment_method"`
	Amount int64              `json:"amount"`
}

// Allocation is the settled outcome of applying tenders to a total.
type Allocation struct {
	Deposit    int64
	Change     int64
	WalletUsed int64
	Carryover  int64
}

// AllocatePayments applies tenders to a total in settlement priority
// order: carryover first (correction transactions only), then the
// prepaid-card subtotal out of cash, then vouchers, then cashless, then
// cash. Only cash produces change. walletBalance caps wallet usage; pass
// anything when no wallet tender is present.
func AllocatePayments(total, cardSubtotal int64, payments []PaymentInput, walletBalance int64, relaxed bool) (*Allocation, error) {
	var ec apperror.Collector

	var cash, voucher, cashless, wallet, carryover int64
	for _, p := range payments {
		if !p.Method.IsValid() {
			ec.Add("payments", "unknown payment method "+string(p.Method))
			continue
		}
		if p.Amount < 0 {
			ec.Add("payments", "payment amounts must not be negative")
			continue
		}
		switch {
		case p.Method == enum.PaymentMethodCash:
			cash += p.Amount
		case p.Method == enum.PaymentMethodVoucher:
			voucher += p.Amount
		case p.Method == enum.PaymentMethodCarryover:
			carryover += p.Amount
		case p.Method.IsCashless():
			cashless += p.Amount
			if p.Method == enum.PaymentMethodWallet {
				wallet += p.Amount
			}
		}
	}
	if err := ec.Err(); err != nil {
		return nil, err
	}

	alloc := &Allocation{
		Deposit:    cash + voucher + cashless + carryover,
		WalletUsed: wallet,
		Carryover:  carryover,
	}

	remaining := total

	if carryover > 0 {
		if !relaxed {
			return nil, apperror.NewFieldError("payments", "carryover is only valid on correction transactions")
		}
		if carryover > remaining {
			return nil, apperror.NewFieldError("payments", "carryover exceeds the amount due")
		}
		remaining -= carryover
	}

	// Prepaid cards are cash-funded: the cash tendered must cover the
	// card subtotal before anything else is settled.
	if cardSubtotal > 0 {
		if cash < cardSubtotal {
			return nil, apperror.NewFieldError("payments", "prepaid card purchases must be covered by cash")
		}
		if cardSubtotal > remaining {
			return nil, apperror.NewFieldError("payments", "prepaid card subtotal exceeds the amount due")
		}
		cash -= cardSubtotal
		remaining -= cardSubtotal
	}

	if voucher > 0 {
		if remaining == 0 {
			return nil, apperror.NewFieldError("payments", "voucher tendered with nothing left to pay")
		}
		// Overtender on vouchers is forfeited, never returned as change.
		used := voucher
		if used > remaining {
			used = remaining
		}
		remaining -= used
	}

	if cashless > 0 {
		if cashless > remaining {
			return nil, apperror.NewFieldError("payments", "cashless tenders cannot exceed the amount due")
		}
		if wallet > walletBalance {
			return nil, apperror.NewFieldError("payments", "wallet balance is insufficient")
		}
		remaining -= cashless
	}

	if cash < remaining {
		return nil, apperror.NewFieldError("payments", "tendered amount is less than the amount due")
	}
	alloc.Change = cash - remaining

	return alloc, nil
}
