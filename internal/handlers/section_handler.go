package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-builder-backend/internal/composer"
	"storefront-builder-backend/internal/middleware"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/service"
)

type SectionHandler struct {
	sectionService *service.SectionService
}

func NewSectionHandler(sectionService *service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

func pageIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return 0, false
	}
	return uint(id), true
}

// respondSectionError maps the composer's error taxonomy to HTTP statuses
// with reasons the editor can show verbatim.
func respondSectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, composer.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "this section type is not available for this page"})
	case errors.Is(err, composer.ErrLimitReached):
		c.JSON(http.StatusConflict, gin.H{"error": "maximum number of sections reached for this page"})
	case errors.Is(err, composer.ErrUnknownSectionType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section type"})
	case errors.Is(err, composer.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
	case errors.Is(err, service.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reach the server, please try again"})
	}
}

func (h *SectionHandler) List(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	sectionList, err := h.sectionService.List(middleware.StoreID(c), pageID)
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sectionList})
}

func (h *SectionHandler) Add(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	var req models.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Add(middleware.StoreID(c), pageID, req)
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section})
}

func (h *SectionHandler) Update(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Update(middleware.StoreID(c), pageID, c.Param("sectionId"), req)
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": section})
}

func (h *SectionHandler) Delete(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	if err := h.sectionService.Delete(middleware.StoreID(c), pageID, c.Param("sectionId")); err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}

func (h *SectionHandler) Duplicate(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	section, err := h.sectionService.Duplicate(middleware.StoreID(c), pageID, c.Param("sectionId"))
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section})
}

func (h *SectionHandler) ToggleVisibility(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	visible, err := h.sectionService.ToggleVisibility(middleware.StoreID(c), pageID, c.Param("sectionId"))
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visible": visible})
}

func (h *SectionHandler) Reorder(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	var req models.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sectionList, err := h.sectionService.Reorder(middleware.StoreID(c), pageID, req.SectionIDs)
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sectionList})
}

func (h *SectionHandler) BuilderConfig(c *gin.Context) {
	pageID, ok := pageIDParam(c)
	if !ok {
		return
	}

	config, err := h.sectionService.GetBuilderConfig(middleware.StoreID(c), pageID)
	if err != nil {
		respondSectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}
