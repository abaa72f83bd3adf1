package request

// ReturnedItemRequest identifies an origin line (or part of one) being
// returned. Price, tax and discount disambiguate between otherwise
// identical lines and are optional.
type ReturnedItemRequest struct {
	Jan      string `json:"jan" binding:"required"`
	Price    *int64 `json:"price"`
	Tax      *int   `json:"tax"`
	Discount *int64 `json:"discount"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// ReturnPaymentRequest is one signed refund or collection. Negative
// amounts refund the shopper, positive amounts collect money.
type ReturnPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
}

// CreateReturnRequest represents a return registration request
type CreateReturnRequest struct {
	OriginTransactionID int64                    `json:"origin_transaction_id" binding:"required"`
	TerminalID          string                   `json:"terminal_id" binding:"required"`
	ReturnType          string                   `json:"return_type" binding:"required"`
	Reason              string                   `json:"reason" binding:"required"`
	Restock             bool                     `json:"restock"`
	AddedItems          []TransactionLineRequest `json:"additional_items" binding:"omitempty,dive"`
	ReturnedItems       []ReturnedItemRequest    `json:"returned_items" binding:"omitempty,dive"`
	Payments            []ReturnPaymentRequest   `json:"payments" binding:"omitempty,dive"`
}

// ReturnFilterRequest represents return listing parameters
type ReturnFilterRequest struct {
	StoreCode string `form:"store_code"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
