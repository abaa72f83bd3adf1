package request

// ReceiveStockItemRequest is one line of a goods receipt
type ReceiveStockItemRequest struct {
	Jan             string `json:"jan" binding:"required"`
	AdditionalStock int    `json:"additional_stock" binding:"required,gt=0"`
}

// ReceiveStockRequest represents a goods receipt booking
type ReceiveStockRequest struct {
	StoreCode string                    `json:"store_code" binding:"required"`
	Items     []ReceiveStockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// StockFilterRequest represents stock listing parameters
type StockFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
