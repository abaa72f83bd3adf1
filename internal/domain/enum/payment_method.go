package enum

// PaymentMethod represents a payment instrument accepted at the register.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCredit  PaymentMethod = "credit"
	PaymentMethodWallet  PaymentMethod = "wallet"
	PaymentMethodVoucher PaymentMethod = "voucher"
	PaymentMethodQRCode  PaymentMethod = "QRcode"
	// PaymentMethodCarryover is a synthetic instrument representing value
	// already collected on an original transaction. Only valid on resale
	// (correction) transactions.
	PaymentMethodCarryover PaymentMethod = "carryover"
)

// IsValid reports whether the method is one of the known values.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodWallet,
		PaymentMethodVoucher, PaymentMethodQRCode, PaymentMethodCarryover:
		return true
	}
	return false
}

// IsCashless reports whether the method settles without physical tender.
// Cashless instruments can never produce change.
func (m PaymentMethod) IsCashless() bool {
	return m == PaymentMethodCredit || m == PaymentMethodWallet || m == PaymentMethodQRCode
}
