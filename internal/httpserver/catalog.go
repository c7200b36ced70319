package httpserver

import (
	"net/http"
	"strconv"

	"chocostore/internal/catalog"
	"chocostore/internal/domain"
	"github.com/gin-gonic/gin"
)

type productListResponse struct {
	Filter  catalog.FilterState `json:"filter"`
	Total   int                 `json:"total"`
	Results []domain.Product    `json:"results"`
}

// listProducts serves GET /api/products?main=&cat=&q=&featured=.
func (h *handlers) listProducts(c *gin.Context) {
	query := c.Request.URL.Query()
	st := catalog.FilterStateFromQuery(query)
	results := h.deps.CatalogSvc.Search(st)

	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "featured must be a boolean")
			return
		}
		kept := make([]domain.Product, 0, len(results))
		for _, p := range results {
			if p.Featured == featured {
				kept = append(kept, p)
			}
		}
		results = kept
	}

	c.JSON(http.StatusOK, productListResponse{Filter: st, Total: len(results), Results: results})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, ok := h.deps.CatalogSvc.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	main := c.DefaultQuery("main", catalog.All)
	c.JSON(http.StatusOK, gin.H{
		"mainCategories": domain.MainCategories,
		"facets":         h.deps.CatalogSvc.Facets(main),
	})
}
