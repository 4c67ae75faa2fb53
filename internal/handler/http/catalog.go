package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CatalogHandler serves the read-only catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// sortKeys maps the query parameter values to the platform's sort keys.
var sortKeys = map[string]domain.ProductSortKey{
	"":             "",
	"best-selling": domain.SortBestSelling,
	"created":      domain.SortCreated,
	"price":        domain.SortPrice,
	"title":        domain.SortTitle,
}

// Search handles GET /api/v1/search?q=&limit=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter q is required"), h.logger)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.service.Search(r.Context(), q, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"query": q, "products": products},
	})
}

// ListProducts handles GET /api/v1/products?sort=&reverse=&first=.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sortParam := r.URL.Query().Get("sort")
	sortKey, ok := sortKeys[sortParam]
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("unknown sort key: "+sortParam), h.logger)
		return
	}
	reverse := r.URL.Query().Get("reverse") == "true"
	first, _ := strconv.Atoi(r.URL.Query().Get("first"))

	products, err := h.service.Products(r.Context(), sortKey, reverse, first)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"products": products},
	})
}

// Featured handles GET /api/v1/products/featured.
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"products": products},
	})
}

// GetProduct handles GET /api/v1/products/{handle}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product, err := h.service.Product(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"product": product},
	})
}

// Recommendations handles GET /api/v1/products/{handle}/recommendations.
// The platform keys recommendations by product id, so the handle is resolved
// first (served from cache on the common path).
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product, err := h.service.Product(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.Recommendations(r.Context(), product.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"products": products},
	})
}

// ListCollections handles GET /api/v1/collections.
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.Collections(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"collections": collections},
	})
}

// GetCollection handles GET /api/v1/collections/{handle}?sort=&reverse=.
func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	sortParam := r.URL.Query().Get("sort")
	sortKey, ok := sortKeys[sortParam]
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("unknown sort key: "+sortParam), h.logger)
		return
	}
	reverse := r.URL.Query().Get("reverse") == "true"

	collection, products, err := h.service.Collection(r.Context(), handle, sortKey, reverse)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"collection": collection, "products": products},
	})
}
