// internal/api/handler/catalog.go
package handler

import (
	"log/slog"
	"net/http"

	"stampmarket/internal/api/types"
	"stampmarket/internal/domain"
	"stampmarket/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles HTTP requests for products and interest lists.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    bool            `json:"is_active"`
	Country     string          `json:"country" validate:"max=100"`
	YearIssued  int             `json:"year_issued" validate:"gte=0"`
	Condition   string          `json:"condition" validate:"max=50"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		Country:     r.Country,
		YearIssued:  r.YearIssued,
		Condition:   r.Condition,
	}
}

// CreateProduct handles POST /admin/products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req ProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), identity, req.toInput())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/{id}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req ProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), identity, id, req.toInput())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/{id}.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), identity, id); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// GetProduct handles GET /products/{id}. Numeric IDs and slugs both resolve.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	var product *domain.Product
	if id, err := parseID(raw); err == nil {
		product, err = h.catalog.GetProduct(r.Context(), id)
		if err != nil {
			respondWithError(w, h.logger, err)
			return
		}
	} else {
		var sErr error
		product, sErr = h.catalog.GetProductBySlug(r.Context(), raw)
		if sErr != nil {
			respondWithError(w, h.logger, sErr)
			return
		}
	}
	respondWithJSON(w, h.logger, http.StatusOK, product)
}

// ListProducts handles GET /products. Non-admin callers only see active
// products; ?all=true lets admins include inactive ones.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	limit, offset := parsePagination(r)

	activeOnly := true
	if r.URL.Query().Get("all") == "true" && identity.Role.IsAdmin() {
		activeOnly = false
	}

	products, total, err := h.catalog.ListProducts(r.Context(), activeOnly, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Product]{
		Data:       products,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// InterestRequest represents the request body for registering interest in a product.
type InterestRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Priority  int   `json:"priority" validate:"gte=0,lte=10"`
}

// RegisterInterest handles POST /interests.
func (h *CatalogHandler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req InterestRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	interest, err := h.catalog.RegisterInterest(r.Context(), identity.UserID, req.ProductID, req.Priority)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, interest)
}

// ListInterests handles GET /interests.
func (h *CatalogHandler) ListInterests(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	interests, err := h.catalog.ListInterests(r.Context(), identity.UserID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, interests)
}

// RemoveInterest handles DELETE /interests/{productID}.
func (h *CatalogHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	productID, err := parseID(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.catalog.RemoveInterest(r.Context(), identity.UserID, productID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Interest removed"})
}
