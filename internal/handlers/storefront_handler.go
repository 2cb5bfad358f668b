package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-builder-backend/internal/middleware"
	"storefront-builder-backend/internal/service"
)

// StorefrontHandler serves the public, read-only rendering API.
type StorefrontHandler struct {
	storefrontService *service.StorefrontService
}

func NewStorefrontHandler(storefrontService *service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefrontService: storefrontService}
}

func (h *StorefrontHandler) GetPage(c *gin.Context) {
	rendered, err := h.storefrontService.GetPage(c.Param("storeSlug"), c.Param("pageSlug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		case errors.Is(err, service.ErrPageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, rendered)
}

// ListPages returns the published pages of a store for navigation menus.
func (h *StorefrontHandler) ListPages(c *gin.Context) {
	pages, err := h.storefrontService.ListPages(c.Param("storeSlug"))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// Preview renders a page for its owning editor, drafts included.
func (h *StorefrontHandler) Preview(c *gin.Context) {
	rendered, err := h.storefrontService.PreviewPage(middleware.StoreID(c), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		case errors.Is(err, service.ErrPageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, rendered)
}
