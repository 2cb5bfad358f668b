package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-builder-backend/internal/middleware"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/service"
)

type StoreHandler struct {
	storeService *service.StoreService
}

func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.storeService.GetByID(middleware.StoreID(c))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

func (h *StoreHandler) UpdateThemeSettings(c *gin.Context) {
	var req models.UpdateThemeSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.storeService.UpdateThemeSettings(middleware.StoreID(c), req.ThemeSettings)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}
