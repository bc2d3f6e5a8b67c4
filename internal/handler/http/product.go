package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/catalog/internal/query"
	"github.com/shopfront/catalog/internal/service"
	"github.com/shopfront/catalog/pkg/httputil"
	"github.com/shopfront/catalog/pkg/validator"
)

const (
	defaultCheapestLimit          = 5
	defaultCheapestAvailableLimit = 3
	maxCheapestLimit              = 50
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// All fields are optional; absent fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Image       *string  `json:"image" validate:"omitempty,min=1"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// parseProductID extracts and checks the {id} path segment. Catalog ids are
// decimal strings assigned by the repository; anything else is a 400.
func parseProductID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := strconv.Atoi(id); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id must be numeric"},
		})
		return "", false
	}
	return id, true
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
// @Summary List products
// @Description Returns a paginated product listing with optional filtering and sorting
// @Tags products
// @Produce json
// @Param category query string false "Filter by category (case-insensitive)"
// @Param search query string false "Substring match on name and description"
// @Param maxPrice query number false "Upper price bound, inclusive"
// @Param available query bool false "Filter by stock availability"
// @Param sort query string false "Sort field" Enums(price,name)
// @Param order query string false "Sort direction" Enums(asc,desc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := query.Options{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		MaxPrice:  q.Get("maxPrice"),
		Available: q.Get("available"),
		Sort:      q.Get("sort"),
		Order:     q.Get("order"),
		Page:      q.Get("page"),
		Limit:     q.Get("limit"),
	}

	result, err := h.service.ListProducts(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(result.Items, result.Total, result.Page, result.Limit, result.TotalPages))
}

// GetProduct handles GET /api/v1/products/{id}
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param request body CreateProductRequest true "Product to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
		Rating:      req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Partially updates a product. All fields are optional.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
		Rating:      req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}

// CheapestProducts handles GET /api/v1/products/cheapest
// @Summary Cheapest in-stock products
// @Description Returns the N cheapest products that are in stock, ascending by price
// @Tags products
// @Produce json
// @Param limit query int false "Number of products (max 50)" default(5)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/cheapest [get]
func (h *ProductHandler) CheapestProducts(w http.ResponseWriter, r *http.Request) {
	h.writeCheapest(w, r, defaultCheapestLimit)
}

// CheapestAvailable handles GET /api/v1/products/cheapest-available
// @Summary Cheapest available products
// @Description Returns the N cheapest in-stock products, ascending by price
// @Tags products
// @Produce json
// @Param limit query int false "Number of products (max 50)" default(3)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/cheapest-available [get]
func (h *ProductHandler) CheapestAvailable(w http.ResponseWriter, r *http.Request) {
	h.writeCheapest(w, r, defaultCheapestAvailableLimit)
}

func (h *ProductHandler) writeCheapest(w http.ResponseWriter, r *http.Request, fallback int) {
	limit := parseLimit(r.URL.Query().Get("limit"), fallback)

	products, err := h.service.CheapestProducts(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// parseLimit falls back on unparseable or non-positive input and caps the
// result rather than rejecting oversized requests.
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	if n > maxCheapestLimit {
		return maxCheapestLimit
	}
	return n
}

// Stats handles GET /api/v1/products/stats
// @Summary Catalog statistics
// @Description Returns product count, price statistics, and per-category counts
// @Tags products
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/stats [get]
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// SeedCatalog handles POST /api/v1/products/seed
// @Summary Reset the catalog to the canonical dataset
// @Description Deletes all products and inserts the canonical seed set. Document-store backend only.
// @Tags products
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products/seed [post]
func (h *ProductHandler) SeedCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SeedCatalog(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
