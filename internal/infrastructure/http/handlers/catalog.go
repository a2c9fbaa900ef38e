package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/domain/catalog"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

const relatedProducts = 4

type CatalogHandler struct {
	catalog *catalog.Catalog
	log     *logger.Logger
}

func NewCatalogHandler(c *catalog.Catalog, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, log: log}
}

type ProductDetailsResponse struct {
	Product cart.CatalogItem   `json:"product"`
	Related []cart.CatalogItem `json:"related"`
}

// HandleListProducts serves ?category= and ?q=; both are optional.
func (h *CatalogHandler) HandleListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		response.WriteSuccess(w, h.catalog.Filter(query.Get("category"), query.Get("q")))
	}
}

func (h *CatalogHandler) HandleGetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cart.ItemID(chi.URLParam(r, "id"))

		item, ok := h.catalog.ByID(id)
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrProductNotFound)
			return
		}

		response.WriteSuccess(w, ProductDetailsResponse{
			Product: item,
			Related: h.catalog.Related(id, relatedProducts),
		})
	}
}

func (h *CatalogHandler) HandleCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := append([]string{catalog.AllCategories}, h.catalog.Categories()...)
		response.WriteSuccess(w, categories)
	}
}
