package repository

import (
	"time"

	"storefront-builder-backend/internal/models"

	"gorm.io/gorm"
)

type PageRepository interface {
	Create(page *models.Page) error
	Update(page *models.Page) error
	Delete(id uint) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(storeID uint, slug string) (*models.Page, error)
	GetBySlugAny(storeID uint, slug string) (*models.Page, error)
	GetAllByStore(storeID uint) ([]models.Page, error)
	GetPublishedByStore(storeID uint) ([]models.Page, error)
	ExistsBySlug(storeID uint, slug string) (bool, error)
	ListDeletedBefore(cutoff time.Time) ([]models.Page, error)
	Purge(id uint) error
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

func (r *pageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

// Delete soft-deletes the page; the row stays around until the retention
// sweep purges it.
func (r *pageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Page{}, id).Error
}

func (r *pageRepository) GetByID(id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetBySlug(storeID uint, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("store_id = ? AND slug = ? AND published = ?", storeID, slug, true).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetBySlugAny(storeID uint, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("store_id = ? AND slug = ?", storeID, slug).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetAllByStore(storeID uint) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) GetPublishedByStore(storeID uint) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("store_id = ? AND published = ?", storeID, true).
		Order("created_at ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) ListDeletedBefore(cutoff time.Time) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Purge removes a soft-deleted page row for good.
func (r *pageRepository) Purge(id uint) error {
	return r.db.Unscoped().Delete(&models.Page{}, id).Error
}

func (r *pageRepository) ExistsBySlug(storeID uint, slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Page{}).
		Where("store_id = ? AND slug = ?", storeID, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
