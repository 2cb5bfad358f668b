// Package seed bootstraps a fresh installation with a demo store so the
// builder has something to open on first run.
package seed

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-builder-backend/internal/config"
	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/internal/service"
	"storefront-builder-backend/pkg/logger"
)

// EnsureDefaultStore creates the configured default store with a published
// homepage, unless a store with that slug already exists. Failures are logged
// and not fatal; the server works without the demo content.
func EnsureDefaultStore(cfg *config.Config, storeRepo repository.StoreRepository, pageService *service.PageService) {
	_, err := storeRepo.GetBySlug(cfg.DefaultStoreSlug)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(err, "Failed to check for default store", nil)
		return
	}

	store := &models.Store{
		Name:          cfg.DefaultStoreName,
		Slug:          cfg.DefaultStoreSlug,
		ThemeSettings: models.JSONMap{},
	}
	if err := storeRepo.Create(store); err != nil {
		logger.Error(err, "Failed to create default store", nil)
		return
	}

	page, err := pageService.Create(store.ID, models.CreatePageRequest{
		Title:    "Home",
		Slug:     "home",
		PageType: constants.PageHomepage,
		Template: "storefront",
	})
	if err != nil {
		logger.Error(err, "Failed to create default homepage", map[string]interface{}{
			"store_id": store.ID,
		})
		return
	}
	if err := pageService.Publish(store.ID, page.ID); err != nil {
		logger.Error(err, "Failed to publish default homepage", map[string]interface{}{
			"page_id": page.ID,
		})
		return
	}

	logger.Info("Seeded default store", map[string]interface{}{
		"store": fmt.Sprintf("%s (%s)", store.Name, store.Slug),
	})
}
