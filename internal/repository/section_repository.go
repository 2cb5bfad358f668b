package repository

import (
	"storefront-builder-backend/internal/models"

	"gorm.io/gorm"
)

// SectionRepository is the storage collaborator for section rows. It exposes
// row-level CRUD plus single-row field updates only; there is deliberately no
// multi-row transaction primitive, so callers performing multi-row
// renumbering issue sequential single-row writes.
type SectionRepository interface {
	Create(section *models.Section) error
	Delete(id string) error
	GetByID(id string) (*models.Section, error)
	ListByPage(pageID uint) ([]models.Section, error)
	UpdatePosition(id string, position int) error
	UpdateFields(id string, fields map[string]interface{}) error
	CountByPage(pageID uint) (int64, error)
	DeleteByPage(pageID uint) error
}

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(section *models.Section) error {
	return r.db.Create(section).Error
}

func (r *sectionRepository) Delete(id string) error {
	return r.db.Delete(&models.Section{}, "id = ?", id).Error
}

func (r *sectionRepository) GetByID(id string) (*models.Section, error) {
	var section models.Section
	if err := r.db.First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) ListByPage(pageID uint) ([]models.Section, error) {
	var sectionList []models.Section
	if err := r.db.Where("page_id = ?", pageID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&sectionList).Error; err != nil {
		return nil, err
	}
	return sectionList, nil
}

// UpdatePosition writes a single section's position. This is the atomic
// "set field X on row Y" primitive the renumbering sequences are built on.
func (r *sectionRepository) UpdatePosition(id string, position int) error {
	return r.db.Model(&models.Section{}).
		Where("id = ?", id).
		Update("position", position).Error
}

func (r *sectionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.Section{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *sectionRepository) CountByPage(pageID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Section{}).
		Where("page_id = ?", pageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sectionRepository) DeleteByPage(pageID uint) error {
	return r.db.Delete(&models.Section{}, "page_id = ?", pageID).Error
}
