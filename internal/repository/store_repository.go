package repository

import (
	"storefront-builder-backend/internal/models"

	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *models.Store) error
	Update(store *models.Store) error
	GetByID(id uint) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	UpdateThemeSettings(id uint, settings models.JSONMap) error
	ExistsBySlug(slug string) (bool, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

func (r *storeRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// UpdateThemeSettings writes the theme settings column of a single store row.
func (r *storeRepository) UpdateThemeSettings(id uint, settings models.JSONMap) error {
	return r.db.Model(&models.Store{}).
		Where("id = ?", id).
		Update("theme_settings", settings).Error
}

func (r *storeRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
