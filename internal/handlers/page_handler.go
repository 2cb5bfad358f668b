package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-builder-backend/internal/middleware"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/service"
)

type PageHandler struct {
	pageService *service.PageService
}

func NewPageHandler(pageService *service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

func respondPageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "a page with this slug already exists"})
	case errors.Is(err, service.ErrUnknownPageType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown page type"})
	case errors.Is(err, service.ErrTemplateNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown page template"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return 0, false
	}
	return uint(id), true
}

func (h *PageHandler) Create(c *gin.Context) {
	var req models.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Create(middleware.StoreID(c), req)
	if err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

func (h *PageHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Update(middleware.StoreID(c), id, req)
	if err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.pageService.Delete(middleware.StoreID(c), id); err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page deleted"})
}

func (h *PageHandler) GetByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	page, err := h.pageService.GetByID(middleware.StoreID(c), id)
	if err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) GetAll(c *gin.Context) {
	pages, err := h.pageService.GetAll(middleware.StoreID(c))
	if err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) Publish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.pageService.Publish(middleware.StoreID(c), id); err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page published"})
}

func (h *PageHandler) Unpublish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.pageService.Unpublish(middleware.StoreID(c), id); err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page unpublished"})
}

func (h *PageHandler) Duplicate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	page, err := h.pageService.Duplicate(middleware.StoreID(c), id)
	if err != nil {
		respondPageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

func (h *PageHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.pageService.GetTemplates()})
}
