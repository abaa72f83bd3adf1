package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Jan                string `json:"jan" binding:"required"`
	Name               string `json:"name" binding:"required,min=1,max=255"`
	Price              int64  `json:"price" binding:"min=0"`
	Tax                int    `json:"tax"`
	Status             string `json:"status"`
	DisableChangeTax   bool   `json:"disable_change_tax"`
	DisableChangePrice bool   `json:"disable_change_price"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=255"`
	Price              *int64  `json:"price" binding:"omitempty,min=0"`
	Tax                *int    `json:"tax"`
	Status             *string `json:"status"`
	DisableChangeTax   *bool   `json:"disable_change_tax"`
	DisableChangePrice *bool   `json:"disable_change_price"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// StorePriceRequest sets a store-specific selling price for a product
type StorePriceRequest struct {
	Price int64 `json:"price" binding:"min=0"`
}
