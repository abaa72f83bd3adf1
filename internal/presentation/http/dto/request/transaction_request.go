package request

// TransactionLineRequest is one basket line as keyed in at the terminal.
// Price and Tax are optional overrides; OriginalProduct marks a line
// carried verbatim from an origin transaction during a correction.
type TransactionLineRequest struct {
	Jan             string `json:"jan" binding:"required"`
	Name            string `json:"name"`
	Price           *int64 `json:"price"`
	Tax             *int   `json:"tax"`
	Discount        int64  `json:"discount" binding:"min=0"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
	OriginalProduct bool   `json:"original_product"`
}

// PaymentRequest is one tender
type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// CreateTransactionRequest represents a sale registration request
type CreateTransactionRequest struct {
	StoreCode      string                   `json:"store_code" binding:"required"`
	TerminalID     string                   `json:"terminal_id" binding:"required"`
	Status         string                   `json:"status" binding:"required"`
	CustomerID     *string                  `json:"user_id"`
	ApprovalNumber *string                  `json:"approval_number"`
	Items          []TransactionLineRequest `json:"items" binding:"required,min=1,dive"`
	Payments       []PaymentRequest         `json:"payments" binding:"required,min=1,dive"`
}

// TransactionFilterRequest represents transaction listing parameters
type TransactionFilterRequest struct {
	StoreCode string `form:"store_code"`
	StaffCode string `form:"staff_code"`
	Status    string `form:"status"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
