package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdcatalog/backend/internal/domain"
)

// OptionsUsecase is the slice of the option service the handlers need.
type OptionsUsecase interface {
	VariantOptions(ctx context.Context, code, plating, stone string) ([]domain.VariantOption, error)
	ResolveImage(ctx context.Context, code, plating, stone string) (*domain.ResolvedImage, error)
	EnrichedSearch(ctx context.Context, params domain.SearchParams) ([]map[string]any, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	options OptionsUsecase
	relay   domain.ImageRelay
}

// NewHandler creates a new HTTP handler
func NewHandler(options OptionsUsecase, relay domain.ImageRelay) *Handler {
	return &Handler{
		options: options,
		relay:   relay,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mdcatalog-backend",
		"version": "0.1.0",
	})
}

// Search handles the enriched passthrough search path. Error payloads use a
// "detail" field throughout; that is the contract the storefront consumes.
func (h *Handler) Search(c *gin.Context) {
	params := domain.SearchParams{
		FreeText:  c.Query("ft"),
		ProductID: c.Query("productId"),
	}

	results, err := h.options.EnrichedSearch(c.Request.Context(), params)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// SKUImageOptions lists every (code, plating, stone) variant option for a
// base code, each resolved to one representative image and price summary.
func (h *Handler) SKUImageOptions(c *gin.Context) {
	code := c.Query("codigo")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "parâmetro 'codigo' é obrigatório"})
		return
	}

	options, err := h.options.VariantOptions(
		c.Request.Context(), code, c.Query("banho"), c.Query("pedra"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// SKUImage resolves the single best variant image for a (code, plating,
// stone) combination.
func (h *Handler) SKUImage(c *gin.Context) {
	code := c.Query("codigo")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "parâmetro 'codigo' é obrigatório"})
		return
	}

	resolved, err := h.options.ResolveImage(
		c.Request.Context(), code, c.Query("banho"), c.Query("pedra"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}

// ImageProxy streams image bytes from the catalog CDN back to the caller.
func (h *Handler) ImageProxy(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "parâmetro 'url' é obrigatório"})
		return
	}

	body, contentType, err := h.relay.Fetch(c.Request.Context(), rawURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Erro ao baixar imagem da VTEX: " + err.Error()})
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

// renderError maps domain errors to HTTP outcomes. "Not found" (reachable
// feed, zero matches) and "upstream unavailable" are deliberately distinct
// conditions with distinct statuses.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrNoProducts):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Nenhum produto encontrado"})
	case errors.Is(err, domain.ErrNoOptions):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Nenhuma combinação de imagem encontrada para esses filtros"})
	case errors.Is(err, domain.ErrFeedUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Erro ao consultar VTEX: " + err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}
