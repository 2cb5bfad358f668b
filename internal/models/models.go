package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`

	StoreID uint `gorm:"index" json:"store_id"`
}

// Store is the multi-tenant root. Theme settings are an open JSON map updated
// as a single row, matching the storage collaborator's single-row primitives.
type Store struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	ThemeSettings JSONMap `gorm:"type:jsonb" json:"theme_settings"`

	Pages []Page `gorm:"foreignKey:StoreID" json:"pages,omitempty"`
}

// Page carries the page-type tag the permission evaluator needs. The section
// engine treats pages as read-only context; it never creates or deletes them
// as a side effect of section operations.
type Page struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID   uint   `gorm:"not null;index" json:"store_id"`
	PageType  string `gorm:"type:varchar(32);not null;default:'custom'" json:"page_type"`
	Title     string `gorm:"not null" json:"title"`
	Slug      string `gorm:"not null;index:idx_pages_store_slug" json:"slug"`
	Published bool   `gorm:"default:false" json:"published"`

	Sections []Section `gorm:"foreignKey:PageID" json:"sections,omitempty"`
}

// Section is one configurable content block on a page. Position is the sort
// rank among siblings; the composer keeps positions contiguous after reorders
// and tolerates transient gaps after deletes and ties after duplicates.
type Section struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StoreID uint   `gorm:"not null;index" json:"store_id"`
	PageID  uint   `gorm:"not null;index" json:"page_id"`
	Type    string `gorm:"type:varchar(32);not null" json:"type"`
	Name    string `gorm:"not null" json:"name"`

	Config            SectionConfig `gorm:"type:jsonb" json:"config"`
	ViewportOverrides JSONMap       `gorm:"type:jsonb" json:"viewport_overrides,omitempty"`

	Visible  bool `gorm:"default:true" json:"visible"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// AfterFind resolves the raw jsonb config into the typed payload matching the
// section's type tag.
func (s *Section) AfterFind(tx *gorm.DB) error {
	return s.Config.Resolve(s.Type)
}

type AddSectionRequest struct {
	Type        string `json:"type" binding:"required"`
	Name        string `json:"name" binding:"omitempty,no_html"`
	InsertIndex *int   `json:"insert_index,omitempty"`
}

// UpdateSectionRequest is a partial update; nil fields are left untouched.
type UpdateSectionRequest struct {
	Name              *string        `json:"name,omitempty" binding:"omitempty,no_html"`
	Config            *SectionConfig `json:"config,omitempty"`
	Visible           *bool          `json:"visible,omitempty"`
	ViewportOverrides *JSONMap       `json:"viewport_overrides,omitempty"`
}

type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" binding:"required"`
}

type CreatePageRequest struct {
	Title    string `json:"title" binding:"required,no_html"`
	Slug     string `json:"slug" binding:"omitempty,slug"`
	PageType string `json:"page_type"`
	Template string `json:"template"`
}

type UpdatePageRequest struct {
	Title     *string `json:"title,omitempty" binding:"omitempty,no_html"`
	Slug      *string `json:"slug,omitempty" binding:"omitempty,slug"`
	Published *bool   `json:"published,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	Name      string `json:"name"`
	StoreName string `json:"store_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateThemeSettingsRequest struct {
	ThemeSettings JSONMap `json:"theme_settings" binding:"required"`
}

// JSONMap is an open string-keyed JSON object stored as jsonb.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*m = decoded
	return nil
}
