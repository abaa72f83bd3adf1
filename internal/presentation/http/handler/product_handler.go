package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// ProductHandler handles catalog-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles catalog product registration
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Jan:                req.Jan,
		Name:               req.Name,
		Price:              req.Price,
		Tax:                req.Tax,
		Status:             req.Status,
		DisableChangeTax:   req.DisableChangeTax,
		DisableChangePrice: req.DisableChangePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get retrieves a catalog product by JAN code
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("jan"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles catalog product updates
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("jan"), &service.UpdateProductInput{
		Name:               req.Name,
		Price:              req.Price,
		Tax:                req.Tax,
		Status:             req.Status,
		DisableChangeTax:   req.DisableChangeTax,
		DisableChangePrice: req.DisableChangePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// List handles catalog listing
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Status:    filter.Status,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// SetStorePrice sets a store-specific selling price
func (h *ProductHandler) SetStorePrice(c *gin.Context) {
	var req request.StorePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	price, err := h.productService.SetStorePrice(c.Request.Context(), c.Param("store_code"), c.Param("jan"), req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store price set successfully", price)
}

// DeleteStorePrice removes a store-specific selling price
func (h *ProductHandler) DeleteStorePrice(c *gin.Context) {
	if err := h.productService.DeleteStorePrice(c.Request.Context(), c.Param("store_code"), c.Param("jan")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetVariation retrieves an in-store variation bundle by its instore JAN
func (h *ProductHandler) GetVariation(c *gin.Context) {
	variation, err := h.productService.GetVariation(c.Request.Context(), c.Param("instore_jan"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Variation retrieved successfully", variation)
}
