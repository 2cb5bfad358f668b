package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/pkg/cache"
)

type StoreService struct {
	storeRepo repository.StoreRepository
	cache     *cache.Cache
}

func NewStoreService(storeRepo repository.StoreRepository, cacheService *cache.Cache) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		cache:     cacheService,
	}
}

func (s *StoreService) GetByID(storeID uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store %d: %w", storeID, err)
	}
	return store, nil
}

// UpdateThemeSettings replaces the store's theme settings in one single-row
// write and drops cached storefront pages so the new theme is picked up.
func (s *StoreService) UpdateThemeSettings(storeID uint, settings models.JSONMap) (*models.Store, error) {
	if _, err := s.GetByID(storeID); err != nil {
		return nil, err
	}

	if err := s.storeRepo.UpdateThemeSettings(storeID, settings); err != nil {
		return nil, fmt.Errorf("update theme settings of store %d: %w", storeID, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateStorePages(storeID)
	}
	return s.GetByID(storeID)
}
