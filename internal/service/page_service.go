package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/permissions"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/internal/sections"
	"storefront-builder-backend/pkg/cache"
	"storefront-builder-backend/pkg/logger"
	"storefront-builder-backend/pkg/validator"
)

type PageService struct {
	pageRepo    repository.PageRepository
	sectionRepo repository.SectionRepository
	cache       *cache.Cache
}

func NewPageService(pageRepo repository.PageRepository, sectionRepo repository.SectionRepository, cacheService *cache.Cache) *PageService {
	return &PageService{
		pageRepo:    pageRepo,
		sectionRepo: sectionRepo,
		cache:       cacheService,
	}
}

func (s *PageService) invalidateStore(storeID uint) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateStorePages(storeID)
}

func (s *PageService) Create(storeID uint, req models.CreatePageRequest) (*models.Page, error) {
	pageType := req.PageType
	if pageType == "" {
		pageType = constants.PageCustom
	}
	if !permissions.KnownPageType(pageType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPageType, pageType)
	}

	slug := validator.NormalizeSlug(req.Slug)
	if slug == "" {
		slug = validator.NormalizeSlug(req.Title)
	}

	taken, err := s.pageRepo.ExistsBySlug(storeID, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug %q: %w", slug, err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}

	page := &models.Page{
		StoreID:  storeID,
		PageType: pageType,
		Title:    validator.SanitizeString(req.Title),
		Slug:     slug,
	}

	if err := s.pageRepo.Create(page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if req.Template != "" && req.Template != "blank" {
		if err := s.applyTemplate(page, req.Template); err != nil {
			return nil, err
		}
	}

	s.invalidateStore(storeID)
	return page, nil
}

func (s *PageService) Update(storeID, pageID uint, req models.UpdatePageRequest) (*models.Page, error) {
	page, err := s.getOwned(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = validator.SanitizeString(*req.Title)
	}
	if req.Slug != nil {
		slug := validator.NormalizeSlug(*req.Slug)
		if slug != page.Slug {
			taken, err := s.pageRepo.ExistsBySlug(storeID, slug)
			if err != nil {
				return nil, fmt.Errorf("check slug %q: %w", slug, err)
			}
			if taken {
				return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
			}
			page.Slug = slug
		}
	}
	if req.Published != nil {
		page.Published = *req.Published
	}

	if err := s.pageRepo.Update(page); err != nil {
		return nil, fmt.Errorf("update page %d: %w", pageID, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidatePage(pageID)
	}
	s.invalidateStore(storeID)
	return page, nil
}

// Delete soft-deletes the page. Its section rows stay in place so the page
// can be restored until the retention sweep purges it.
func (s *PageService) Delete(storeID, pageID uint) error {
	page, err := s.getOwned(storeID, pageID)
	if err != nil {
		return err
	}

	if err := s.pageRepo.Delete(page.ID); err != nil {
		return fmt.Errorf("delete page %d: %w", pageID, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidatePage(pageID)
	}
	s.invalidateStore(storeID)
	return nil
}

// PurgeDeleted permanently removes pages soft-deleted longer ago than the
// retention window, together with their section rows. Each page is purged
// with two sequential single-row-scope writes; a failure leaves the page for
// the next sweep.
func (s *PageService) PurgeDeleted(retention time.Duration) (int, error) {
	expired, err := s.pageRepo.ListDeletedBefore(time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("list expired pages: %w", err)
	}

	purged := 0
	for _, page := range expired {
		if err := s.sectionRepo.DeleteByPage(page.ID); err != nil {
			logger.Error(err, "Failed to purge sections of expired page", map[string]interface{}{
				"page_id": page.ID,
			})
			continue
		}
		if err := s.pageRepo.Purge(page.ID); err != nil {
			logger.Error(err, "Failed to purge expired page", map[string]interface{}{
				"page_id": page.ID,
			})
			continue
		}
		purged++
	}

	if purged > 0 {
		logger.Info("Purged expired pages", map[string]interface{}{"count": purged})
	}
	return purged, nil
}

func (s *PageService) GetByID(storeID, pageID uint) (*models.Page, error) {
	if s.cache != nil {
		var cached models.Page
		if err := s.cache.GetCachedPage(pageID, &cached); err == nil {
			// The cached row still carries its owner; the store scope
			// check applies to hits too.
			if cached.StoreID != storeID {
				return nil, ErrPageNotFound
			}
			return &cached, nil
		}
	}

	page, err := s.getOwned(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.CachePage(page.ID, page)
	}
	return page, nil
}

func (s *PageService) GetAll(storeID uint) ([]models.Page, error) {
	if s.cache != nil {
		var cached []models.Page
		if err := s.cache.GetCachedStorePages(storeID, &cached); err == nil {
			return cached, nil
		}
	}

	pages, err := s.pageRepo.GetAllByStore(storeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.CacheStorePages(storeID, pages)
	}
	return pages, nil
}

func (s *PageService) Publish(storeID, pageID uint) error {
	published := true
	_, err := s.Update(storeID, pageID, models.UpdatePageRequest{Published: &published})
	return err
}

func (s *PageService) Unpublish(storeID, pageID uint) error {
	published := false
	_, err := s.Update(storeID, pageID, models.UpdatePageRequest{Published: &published})
	return err
}

// Duplicate copies a page and all its section rows; the copy starts as a
// draft with fresh section ids.
func (s *PageService) Duplicate(storeID, pageID uint) (*models.Page, error) {
	original, err := s.getOwned(storeID, pageID)
	if err != nil {
		return nil, err
	}

	slug := original.Slug + "-copy"
	for i := 2; ; i++ {
		taken, err := s.pageRepo.ExistsBySlug(storeID, slug)
		if err != nil {
			return nil, fmt.Errorf("check slug %q: %w", slug, err)
		}
		if !taken {
			break
		}
		slug = fmt.Sprintf("%s-copy-%d", original.Slug, i)
	}

	duplicate := &models.Page{
		StoreID:  storeID,
		PageType: original.PageType,
		Title:    fmt.Sprintf("%s (Copy)", original.Title),
		Slug:     slug,
	}
	if err := s.pageRepo.Create(duplicate); err != nil {
		return nil, fmt.Errorf("create page copy: %w", err)
	}

	stored, err := s.sectionRepo.ListByPage(original.ID)
	if err != nil {
		return nil, fmt.Errorf("load sections of page %d: %w", original.ID, err)
	}

	for _, section := range stored {
		config, err := section.Config.Clone(section.Type)
		if err != nil {
			return nil, fmt.Errorf("clone config of section %s: %w", section.ID, err)
		}
		clone := models.Section{
			ID:                uuid.New().String(),
			StoreID:           storeID,
			PageID:            duplicate.ID,
			Type:              section.Type,
			Name:              section.Name,
			Config:            config,
			ViewportOverrides: section.ViewportOverrides,
			Visible:           section.Visible,
			Position:          section.Position,
		}
		if err := s.sectionRepo.Create(&clone); err != nil {
			return nil, fmt.Errorf("copy section %s: %w", section.ID, err)
		}
	}

	s.invalidateStore(storeID)
	return duplicate, nil
}

// PageTemplate is a predefined starting layout for a new page.
type PageTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PageType    string   `json:"page_type"`
	Sections    []string `json:"sections"`
}

func (s *PageService) GetTemplates() []PageTemplate {
	return []PageTemplate{
		{
			ID:          "blank",
			Name:        "Blank Page",
			Description: "Start from scratch",
			PageType:    constants.PageCustom,
			Sections:    []string{},
		},
		{
			ID:          "storefront",
			Name:        "Standard Storefront",
			Description: "Hero, featured products and a newsletter signup",
			PageType:    constants.PageHomepage,
			Sections: []string{
				constants.SectionHeroBanner,
				constants.SectionFeaturedProducts,
				constants.SectionCategoryGrid,
				constants.SectionTestimonials,
				constants.SectionNewsletterSignup,
			},
		},
		{
			ID:          "landing",
			Name:        "Landing Page",
			Description: "Hero with supporting content and a call to action",
			PageType:    constants.PageCustom,
			Sections: []string{
				constants.SectionHeroBanner,
				constants.SectionImageWithText,
				constants.SectionLogoList,
				constants.SectionNewsletterSignup,
			},
		},
		{
			ID:          "about",
			Name:        "About Page",
			Description: "Company story with testimonials",
			PageType:    constants.PageAbout,
			Sections: []string{
				constants.SectionHeroBanner,
				constants.SectionRichText,
				constants.SectionImageWithText,
				constants.SectionTestimonials,
			},
		},
	}
}

func (s *PageService) applyTemplate(page *models.Page, templateID string) error {
	var selected *PageTemplate
	for _, tmpl := range s.GetTemplates() {
		if tmpl.ID == templateID {
			selected = &tmpl
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, templateID)
	}

	position := 0
	for _, sectionType := range selected.Sections {
		if !permissions.IsAllowed(page.PageType, sectionType) {
			logger.Warn("Template section skipped by page-type permissions", map[string]interface{}{
				"template":     templateID,
				"page_type":    page.PageType,
				"section_type": sectionType,
			})
			continue
		}
		definition, ok := sections.Lookup(sectionType)
		if !ok {
			continue
		}
		section := models.Section{
			ID:       uuid.New().String(),
			StoreID:  page.StoreID,
			PageID:   page.ID,
			Type:     sectionType,
			Name:     definition.Name,
			Config:   definition.DefaultConfig(),
			Visible:  true,
			Position: position,
		}
		if err := s.sectionRepo.Create(&section); err != nil {
			return fmt.Errorf("create template section %q: %w", sectionType, err)
		}
		position++
	}
	return nil
}

func (s *PageService) getOwned(storeID, pageID uint) (*models.Page, error) {
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
	return page, nil
}
