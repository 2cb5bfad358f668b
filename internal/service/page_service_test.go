package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/pkg/cache"
)

type memoryPageRepository struct {
	pages  map[uint]*models.Page
	nextID uint
}

func newMemoryPageRepository() *memoryPageRepository {
	return &memoryPageRepository{pages: make(map[uint]*models.Page), nextID: 1}
}

func (m *memoryPageRepository) Create(page *models.Page) error {
	page.ID = m.nextID
	m.nextID++
	stored := *page
	m.pages[page.ID] = &stored
	return nil
}

func (m *memoryPageRepository) Update(page *models.Page) error {
	if _, ok := m.pages[page.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *page
	m.pages[page.ID] = &stored
	return nil
}

func (m *memoryPageRepository) Delete(id uint) error {
	if page, ok := m.pages[id]; ok {
		page.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (m *memoryPageRepository) GetByID(id uint) (*models.Page, error) {
	if page, ok := m.pages[id]; ok && !page.DeletedAt.Valid {
		out := *page
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryPageRepository) GetBySlug(storeID uint, slug string) (*models.Page, error) {
	for _, page := range m.pages {
		if page.StoreID == storeID && page.Slug == slug && page.Published && !page.DeletedAt.Valid {
			out := *page
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryPageRepository) GetBySlugAny(storeID uint, slug string) (*models.Page, error) {
	for _, page := range m.pages {
		if page.StoreID == storeID && page.Slug == slug && !page.DeletedAt.Valid {
			out := *page
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryPageRepository) GetAllByStore(storeID uint) ([]models.Page, error) {
	var out []models.Page
	for _, page := range m.pages {
		if page.StoreID == storeID && !page.DeletedAt.Valid {
			out = append(out, *page)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryPageRepository) GetPublishedByStore(storeID uint) ([]models.Page, error) {
	var out []models.Page
	for _, page := range m.pages {
		if page.StoreID == storeID && page.Published && !page.DeletedAt.Valid {
			out = append(out, *page)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryPageRepository) ExistsBySlug(storeID uint, slug string) (bool, error) {
	for _, page := range m.pages {
		if page.StoreID == storeID && page.Slug == slug && !page.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryPageRepository) ListDeletedBefore(cutoff time.Time) ([]models.Page, error) {
	var out []models.Page
	for _, page := range m.pages {
		if page.DeletedAt.Valid && page.DeletedAt.Time.Before(cutoff) {
			out = append(out, *page)
		}
	}
	return out, nil
}

func (m *memoryPageRepository) Purge(id uint) error {
	delete(m.pages, id)
	return nil
}

var _ repository.PageRepository = (*memoryPageRepository)(nil)

type memorySectionRepository struct {
	rows []models.Section
}

func newMemorySectionRepository() *memorySectionRepository {
	return &memorySectionRepository{}
}

func (m *memorySectionRepository) Create(section *models.Section) error {
	m.rows = append(m.rows, *section)
	return nil
}

func (m *memorySectionRepository) Delete(id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memorySectionRepository) GetByID(id string) (*models.Section, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			out := m.rows[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memorySectionRepository) ListByPage(pageID uint) ([]models.Section, error) {
	var out []models.Section
	for _, row := range m.rows {
		if row.PageID == pageID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memorySectionRepository) UpdatePosition(id string, position int) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Position = position
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memorySectionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		if name, ok := fields["name"].(string); ok {
			m.rows[i].Name = name
		}
		if visible, ok := fields["visible"].(bool); ok {
			m.rows[i].Visible = visible
		}
		if config, ok := fields["config"].(models.SectionConfig); ok {
			m.rows[i].Config = config
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *memorySectionRepository) CountByPage(pageID uint) (int64, error) {
	var count int64
	for _, row := range m.rows {
		if row.PageID == pageID {
			count++
		}
	}
	return count, nil
}

func (m *memorySectionRepository) DeleteByPage(pageID uint) error {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.PageID != pageID {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

var _ repository.SectionRepository = (*memorySectionRepository)(nil)

func newTestPageService() (*PageService, *memoryPageRepository, *memorySectionRepository) {
	pageRepo := newMemoryPageRepository()
	sectionRepo := newMemorySectionRepository()
	return NewPageService(pageRepo, sectionRepo, nil), pageRepo, sectionRepo
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cacheService, err := cache.NewCache(mr.Addr(), true)
	if err != nil {
		t.Fatalf("connect cache: %v", err)
	}
	t.Cleanup(func() { cacheService.Close() })
	return cacheService, mr
}

func newCachedPageService(t *testing.T) (*PageService, *memoryPageRepository) {
	t.Helper()
	cacheService, _ := newTestCache(t)
	pageRepo := newMemoryPageRepository()
	return NewPageService(pageRepo, newMemorySectionRepository(), cacheService), pageRepo
}

func TestPageServiceCreateDefaultsToCustom(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.Create(1, models.CreatePageRequest{Title: "Summer Sale"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if page.PageType != constants.PageCustom {
		t.Fatalf("expected custom page type, got %q", page.PageType)
	}
	if page.Slug != "summer-sale" {
		t.Fatalf("expected slug derived from title, got %q", page.Slug)
	}
	if page.Published {
		t.Fatal("new pages must start as drafts")
	}
}

func TestPageServiceCreateRejectsUnknownPageType(t *testing.T) {
	svc, pageRepo, _ := newTestPageService()

	_, err := svc.Create(1, models.CreatePageRequest{Title: "Landing", PageType: "landing_v2"})
	if !errors.Is(err, ErrUnknownPageType) {
		t.Fatalf("expected ErrUnknownPageType, got %v", err)
	}
	if len(pageRepo.pages) != 0 {
		t.Fatal("rejected create must not write")
	}
}

func TestPageServiceCreateRejectsTakenSlug(t *testing.T) {
	svc, _, _ := newTestPageService()

	if _, err := svc.Create(1, models.CreatePageRequest{Title: "About", Slug: "about"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err := svc.Create(1, models.CreatePageRequest{Title: "About Two", Slug: "about"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	// Another store may reuse the slug.
	if _, err := svc.Create(2, models.CreatePageRequest{Title: "About", Slug: "about"}); err != nil {
		t.Fatalf("Create for another store returned error: %v", err)
	}
}

func TestPageServiceCreateWithTemplate(t *testing.T) {
	svc, _, sectionRepo := newTestPageService()

	page, err := svc.Create(1, models.CreatePageRequest{
		Title:    "Home",
		PageType: constants.PageHomepage,
		Template: "storefront",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, _ := sectionRepo.ListByPage(page.ID)
	if len(stored) != 5 {
		t.Fatalf("expected 5 template sections, got %d", len(stored))
	}
	for i, section := range stored {
		if section.Position != i {
			t.Fatalf("expected contiguous positions, got %d at %d", section.Position, i)
		}
		if !section.Visible {
			t.Fatalf("template section %q must be visible", section.Type)
		}
	}
	if stored[0].Type != constants.SectionHeroBanner {
		t.Fatalf("expected hero banner first, got %q", stored[0].Type)
	}
}

func TestPageServiceTemplateSkipsDisallowedSections(t *testing.T) {
	svc, _, sectionRepo := newTestPageService()

	// The about template carries a hero banner and testimonials; on a policy
	// page only the rich text section survives the permission filter.
	page, err := svc.Create(1, models.CreatePageRequest{
		Title:    "Terms",
		PageType: constants.PagePolicy,
		Template: "about",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, _ := sectionRepo.ListByPage(page.ID)
	if len(stored) != 1 {
		t.Fatalf("expected 1 surviving section, got %d", len(stored))
	}
	if stored[0].Type != constants.SectionRichText {
		t.Fatalf("expected rich text, got %q", stored[0].Type)
	}
	if stored[0].Position != 0 {
		t.Fatalf("surviving sections must be renumbered from 0, got %d", stored[0].Position)
	}
}

func TestPageServiceCreateUnknownTemplate(t *testing.T) {
	svc, _, _ := newTestPageService()

	_, err := svc.Create(1, models.CreatePageRequest{Title: "Home", Template: "seasonal"})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestPageServiceUpdateScopedToStore(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.Create(1, models.CreatePageRequest{Title: "About"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	title := "Stolen"
	if _, err := svc.Update(2, page.ID, models.UpdatePageRequest{Title: &title}); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound for foreign store, got %v", err)
	}
}

func TestPageServicePublishLifecycle(t *testing.T) {
	svc, pageRepo, _ := newTestPageService()

	page, err := svc.Create(1, models.CreatePageRequest{Title: "Launch"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Publish(1, page.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	stored, _ := pageRepo.GetByID(page.ID)
	if !stored.Published {
		t.Fatal("expected page to be published")
	}

	if err := svc.Unpublish(1, page.ID); err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	stored, _ = pageRepo.GetByID(page.ID)
	if stored.Published {
		t.Fatal("expected page to be a draft again")
	}
}

func TestPageServiceDeleteSoftDeletesAndFreesSlug(t *testing.T) {
	svc, pageRepo, sectionRepo := newTestPageService()

	page, err := svc.Create(1, models.CreatePageRequest{
		Title:    "Home",
		PageType: constants.PageHomepage,
		Template: "storefront",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(1, page.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := pageRepo.GetByID(page.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatal("expected deleted page to be invisible")
	}
	if count, _ := sectionRepo.CountByPage(page.ID); count == 0 {
		t.Fatal("sections must survive until the retention sweep")
	}

	// The slug is free for reuse right away.
	if _, err := svc.Create(1, models.CreatePageRequest{Title: "Home"}); err != nil {
		t.Fatalf("recreating a deleted page returned error: %v", err)
	}
}

func TestPageServicePurgeDeleted(t *testing.T) {
	svc, pageRepo, sectionRepo := newTestPageService()

	expired, err := svc.Create(1, models.CreatePageRequest{
		Title:    "Old",
		PageType: constants.PageHomepage,
		Template: "storefront",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	fresh, err := svc.Create(1, models.CreatePageRequest{Title: "New"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(1, expired.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(1, fresh.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	// Age the first deletion past the retention window.
	pageRepo.pages[expired.ID].DeletedAt.Time = time.Now().Add(-48 * time.Hour)

	purged, err := svc.PurgeDeleted(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeDeleted returned error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged page, got %d", purged)
	}

	if _, ok := pageRepo.pages[expired.ID]; ok {
		t.Fatal("expected the expired page row to be gone")
	}
	if count, _ := sectionRepo.CountByPage(expired.ID); count != 0 {
		t.Fatalf("expected purged sections, found %d", count)
	}
	if _, ok := pageRepo.pages[fresh.ID]; !ok {
		t.Fatal("recently deleted pages must survive the sweep")
	}
}

func TestPageServiceGetAllServesFromCacheUntilInvalidated(t *testing.T) {
	svc, pageRepo := newCachedPageService(t)

	if _, err := svc.Create(1, models.CreatePageRequest{Title: "Home"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, err := svc.GetAll(1)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 page, got %d", len(first))
	}

	// A row written behind the service's back is invisible while the cached
	// listing is live.
	if err := pageRepo.Create(&models.Page{StoreID: 1, Title: "Ghost", Slug: "ghost"}); err != nil {
		t.Fatalf("seed page: %v", err)
	}
	second, err := svc.GetAll(1)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected the cached listing, got %d pages", len(second))
	}

	// Writes through the service invalidate the listing.
	if _, err := svc.Create(1, models.CreatePageRequest{Title: "About"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	third, err := svc.GetAll(1)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(third) != 3 {
		t.Fatalf("expected 3 pages after invalidation, got %d", len(third))
	}
}

func TestPageServiceGetByIDCacheKeepsStoreScope(t *testing.T) {
	svc, _ := newCachedPageService(t)

	page, err := svc.Create(1, models.CreatePageRequest{Title: "Home"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Prime the cache.
	if _, err := svc.GetByID(1, page.ID); err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	// A cache hit must not leak the page to another store.
	if _, err := svc.GetByID(2, page.ID); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound for foreign store, got %v", err)
	}

	// Updates invalidate the cached row.
	title := "Renamed"
	if _, err := svc.Update(1, page.ID, models.UpdatePageRequest{Title: &title}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, err := svc.GetByID(1, page.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("expected the updated title, got %q", got.Title)
	}
}

func TestPageServiceDuplicate(t *testing.T) {
	svc, _, sectionRepo := newTestPageService()

	original, err := svc.Create(1, models.CreatePageRequest{
		Title:    "Home",
		PageType: constants.PageHomepage,
		Template: "storefront",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Publish(1, original.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	duplicate, err := svc.Duplicate(1, original.ID)
	if err != nil {
		t.Fatalf("Duplicate returned error: %v", err)
	}
	if duplicate.Slug != "home-copy" {
		t.Fatalf("expected slug home-copy, got %q", duplicate.Slug)
	}
	if duplicate.Published {
		t.Fatal("page copies must start as drafts")
	}

	originalSections, _ := sectionRepo.ListByPage(original.ID)
	copiedSections, _ := sectionRepo.ListByPage(duplicate.ID)
	if len(copiedSections) != len(originalSections) {
		t.Fatalf("expected %d copied sections, got %d", len(originalSections), len(copiedSections))
	}
	for i := range copiedSections {
		if copiedSections[i].ID == originalSections[i].ID {
			t.Fatal("copied sections must get fresh ids")
		}
		if copiedSections[i].Type != originalSections[i].Type {
			t.Fatal("copied sections must keep their types")
		}
		if copiedSections[i].Position != originalSections[i].Position {
			t.Fatal("copied sections must keep their positions")
		}
	}

	// A second duplicate gets a numbered slug.
	second, err := svc.Duplicate(1, original.ID)
	if err != nil {
		t.Fatalf("second Duplicate returned error: %v", err)
	}
	if second.Slug != "home-copy-2" {
		t.Fatalf("expected slug home-copy-2, got %q", second.Slug)
	}
}
