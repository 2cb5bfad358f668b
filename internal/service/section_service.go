package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-builder-backend/internal/composer"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/permissions"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/internal/sections"
	"storefront-builder-backend/pkg/cache"
	"storefront-builder-backend/pkg/validator"
)

// SectionService fronts the composer for the editor API. Each call builds a
// composer for the target page, loads the stored collection and applies one
// operation, then invalidates the storefront cache for that page.
type SectionService struct {
	sectionRepo repository.SectionRepository
	pageRepo    repository.PageRepository
	cache       *cache.Cache
}

func NewSectionService(sectionRepo repository.SectionRepository, pageRepo repository.PageRepository, cacheService *cache.Cache) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		pageRepo:    pageRepo,
		cache:       cacheService,
	}
}

func (s *SectionService) composerFor(storeID, pageID uint) (*composer.Composer, error) {
	page, err := s.pageRepo.GetByID(pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("load page %d: %w", pageID, err)
	}
	if page.StoreID != storeID {
		return nil, ErrPageNotFound
	}

	c := composer.New(*page, s.sectionRepo)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SectionService) invalidate(pageID uint) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidatePageSections(pageID)
}

// List returns the page's sections in display order, including hidden ones.
func (s *SectionService) List(storeID, pageID uint) ([]models.Section, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return nil, err
	}
	return c.Sections(), nil
}

func (s *SectionService) Add(storeID, pageID uint, req models.AddSectionRequest) (*models.Section, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return nil, err
	}

	section, err := c.Insert(req.Type, validator.SanitizeString(req.Name), req.InsertIndex)
	if err != nil {
		return nil, err
	}

	s.invalidate(pageID)
	return section, nil
}

func (s *SectionService) Update(storeID, pageID uint, sectionID string, req models.UpdateSectionRequest) (*models.Section, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clean := validator.SanitizeString(*req.Name)
		req.Name = &clean
	}
	if req.Config != nil {
		for _, section := range c.Sections() {
			if section.ID == sectionID {
				if err := sanitizeConfig(section.Type, req.Config); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if err := c.UpdateFields(sectionID, req); err != nil {
		return nil, err
	}

	s.invalidate(pageID)

	for _, section := range c.Sections() {
		if section.ID == sectionID {
			return &section, nil
		}
	}
	return nil, composer.ErrSectionNotFound
}

func (s *SectionService) Delete(storeID, pageID uint, sectionID string) error {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return err
	}

	if err := c.Delete(sectionID); err != nil {
		return err
	}

	s.invalidate(pageID)
	return nil
}

func (s *SectionService) Duplicate(storeID, pageID uint, sectionID string) (*models.Section, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return nil, err
	}

	duplicate, err := c.Duplicate(sectionID)
	if err != nil {
		return nil, err
	}

	s.invalidate(pageID)
	return duplicate, nil
}

func (s *SectionService) ToggleVisibility(storeID, pageID uint, sectionID string) (bool, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return false, err
	}

	visible, err := c.ToggleVisibility(sectionID)
	if err != nil {
		return visible, err
	}

	s.invalidate(pageID)
	return visible, nil
}

func (s *SectionService) Reorder(storeID, pageID uint, sectionIDs []string) ([]models.Section, error) {
	c, err := s.composerFor(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if err := c.Reorder(sectionIDs); err != nil {
		return nil, err
	}

	s.invalidate(pageID)
	return c.Sections(), nil
}

// sanitizeConfig strips unsafe markup from the payload fields editors author
// as HTML. Other payloads pass through untouched.
func sanitizeConfig(sectionType string, config *models.SectionConfig) error {
	if err := config.Resolve(sectionType); err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}
	if config.RichText != nil {
		config.RichText.Body = validator.SanitizeHTML(config.RichText.Body)
	}
	if html, ok := config.Extra["html"].(string); ok {
		config.Extra["html"] = validator.SanitizeHTML(html)
	}
	return nil
}

// BuilderConfig describes what the editor palette may offer for one page.
type BuilderConfig struct {
	PageType          string                           `json:"page_type"`
	AvailableSections []sections.SectionTypeDefinition `json:"available_sections"`
	MaxSections       int                              `json:"max_sections"`
	Description       string                           `json:"description"`
}

// GetBuilderConfig returns the section palette filtered down to what the
// page's type permits, plus the page type's section cap.
func (s *SectionService) GetBuilderConfig(storeID, pageID uint) (*BuilderConfig, error) {
	page, err := s.pageRepo.GetByID(pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("load page %d: %w", pageID, err)
	}
	if page.StoreID != storeID {
		return nil, ErrPageNotFound
	}

	info := permissions.Info(page.PageType)

	available := make([]sections.SectionTypeDefinition, 0)
	for _, def := range sections.Definitions() {
		if permissions.IsAllowed(page.PageType, def.Type) {
			available = append(available, def)
		}
	}

	return &BuilderConfig{
		PageType:          page.PageType,
		AvailableSections: available,
		MaxSections:       info.MaxSections,
		Description:       info.Description,
	}, nil
}
