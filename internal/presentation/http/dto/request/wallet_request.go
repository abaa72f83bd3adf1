package request

// ChargeWalletRequest tops up a shopper wallet
type ChargeWalletRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// WalletEntryFilterRequest represents wallet ledger listing parameters
type WalletEntryFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
