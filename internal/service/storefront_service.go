package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/pkg/cache"
	"storefront-builder-backend/pkg/logger"
)

// StorefrontService is the read path for the public renderer: published
// pages only, hidden sections filtered out, order as persisted. Results are
// cached; the section service invalidates on every mutation.
type StorefrontService struct {
	storeRepo   repository.StoreRepository
	pageRepo    repository.PageRepository
	sectionRepo repository.SectionRepository
	cache       *cache.Cache
}

func NewStorefrontService(storeRepo repository.StoreRepository, pageRepo repository.PageRepository, sectionRepo repository.SectionRepository, cacheService *cache.Cache) *StorefrontService {
	return &StorefrontService{
		storeRepo:   storeRepo,
		pageRepo:    pageRepo,
		sectionRepo: sectionRepo,
		cache:       cacheService,
	}
}

// RenderedPage is what the storefront renderer consumes: the page context,
// the store's theme settings and the visible sections in display order.
type RenderedPage struct {
	Page          models.Page      `json:"page"`
	ThemeSettings models.JSONMap   `json:"theme_settings"`
	Sections      []models.Section `json:"sections"`
}

func (s *StorefrontService) GetPage(storeSlug, pageSlug string) (*RenderedPage, error) {
	store, err := s.storeRepo.GetBySlug(storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store %q: %w", storeSlug, err)
	}

	page, err := s.pageRepo.GetBySlug(store.ID, pageSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("load page %q: %w", pageSlug, err)
	}

	sectionList, err := s.visibleSections(page.ID)
	if err != nil {
		return nil, err
	}

	return &RenderedPage{
		Page:          *page,
		ThemeSettings: store.ThemeSettings,
		Sections:      sectionList,
	}, nil
}

// PreviewPage renders a page for its owning editor regardless of publish
// state. The cache is bypassed in both directions: draft edits must show
// immediately and must never end up in the published entries.
func (s *StorefrontService) PreviewPage(storeID uint, pageSlug string) (*RenderedPage, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store %d: %w", storeID, err)
	}

	page, err := s.pageRepo.GetBySlugAny(storeID, pageSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("load page %q: %w", pageSlug, err)
	}

	stored, err := s.sectionRepo.ListByPage(page.ID)
	if err != nil {
		return nil, fmt.Errorf("load sections for page %d: %w", page.ID, err)
	}

	return &RenderedPage{
		Page:          *page,
		ThemeSettings: store.ThemeSettings,
		Sections:      filterVisible(stored),
	}, nil
}

// PageSummary is one entry of the public page listing, enough for a
// storefront to build its navigation.
type PageSummary struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	PageType string `json:"page_type"`
}

// ListPages returns the store's published pages in creation order.
func (s *StorefrontService) ListPages(storeSlug string) ([]PageSummary, error) {
	store, err := s.storeRepo.GetBySlug(storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store %q: %w", storeSlug, err)
	}

	pages, err := s.pageRepo.GetPublishedByStore(store.ID)
	if err != nil {
		return nil, fmt.Errorf("list pages of store %d: %w", store.ID, err)
	}

	summaries := make([]PageSummary, 0, len(pages))
	for _, page := range pages {
		summaries = append(summaries, PageSummary{
			ID:       page.ID,
			Title:    page.Title,
			Slug:     page.Slug,
			PageType: page.PageType,
		})
	}
	return summaries, nil
}

func (s *StorefrontService) visibleSections(pageID uint) ([]models.Section, error) {
	if s.cache != nil {
		var cached []models.Section
		if err := s.cache.GetCachedPageSections(pageID, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("Section cache read failed, falling back to storage", map[string]interface{}{
				"page_id": pageID,
				"error":   err.Error(),
			})
		}
	}

	stored, err := s.sectionRepo.ListByPage(pageID)
	if err != nil {
		return nil, fmt.Errorf("load sections for page %d: %w", pageID, err)
	}

	visible := filterVisible(stored)

	if s.cache != nil {
		_ = s.cache.CachePageSections(pageID, visible)
	}
	return visible, nil
}

func filterVisible(stored []models.Section) []models.Section {
	visible := make([]models.Section, 0, len(stored))
	for _, section := range stored {
		if section.Visible {
			visible = append(visible, section)
		}
	}
	return visible
}
