// Package composer owns the ordered section list of a single page and keeps
// the sort-position invariant intact across inserts, deletes, duplicates and
// reorders. The storage collaborator offers no multi-row transaction, so
// multi-row renumbering is issued as sequential single-row writes; an
// external reader racing such a sequence can observe an intermediate state.
// That weak-consistency window is accepted and kept as short as possible.
package composer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/permissions"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/internal/sections"
	"storefront-builder-backend/pkg/logger"
)

// Composer manages the section collection of one page. The in-memory list is
// a cache over the repository and is reconciled by re-loading after every
// multi-row write sequence. A Composer is safe for concurrent use, but the
// intended model is one editor session per page.
type Composer struct {
	mu   sync.Mutex
	page models.Page
	repo repository.SectionRepository

	sections []models.Section
}

// New builds a composer for the given page. The page is read-only context:
// its type drives permission checks, its ids scope new rows.
func New(page models.Page, repo repository.SectionRepository) *Composer {
	return &Composer{
		page: page,
		repo: repo,
	}
}

// Load replaces the in-memory list with the stored one, ordered by position.
// On failure the previous in-memory state is kept.
func (c *Composer) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reload()
}

func (c *Composer) reload() error {
	stored, err := c.repo.ListByPage(c.page.ID)
	if err != nil {
		return fmt.Errorf("load sections for page %d: %w", c.page.ID, err)
	}
	c.sections = stored
	return nil
}

// Sections returns a copy of the current in-memory list in display order.
func (c *Composer) Sections() []models.Section {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Insert adds a new section of the given type at insertIndex (append when
// nil). Permission and quota are checked before any storage write, so a
// rejected insert leaves the stored collection untouched.
func (c *Composer) Insert(sectionType, name string, insertIndex *int) (*models.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !permissions.IsAllowed(c.page.PageType, sectionType) {
		return nil, fmt.Errorf("%w: %q on %q page", ErrNotAllowed, sectionType, c.page.PageType)
	}

	if !permissions.CanAcceptMore(c.page.PageType, len(c.sections)) {
		return nil, fmt.Errorf("%w: %q page", ErrLimitReached, c.page.PageType)
	}

	definition, ok := sections.Lookup(sectionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, sectionType)
	}

	target := len(c.sections)
	if insertIndex != nil {
		target = *insertIndex
		if target < 0 {
			target = 0
		}
		if target > len(c.sections) {
			target = len(c.sections)
		}
	}

	// Make room before the new row exists: shift displaced rows upward,
	// highest position first, so no two stored rows ever share a position
	// during the sequence.
	if target < len(c.sections) {
		for i := len(c.sections) - 1; i >= 0; i-- {
			if c.sections[i].Position < target {
				continue
			}
			if err := c.repo.UpdatePosition(c.sections[i].ID, c.sections[i].Position+1); err != nil {
				logger.Error(err, "Failed to shift section during insert", map[string]interface{}{
					"page_id":    c.page.ID,
					"section_id": c.sections[i].ID,
				})
				if reloadErr := c.reload(); reloadErr != nil {
					return nil, reloadErr
				}
				return nil, fmt.Errorf("shift section %s: %w", c.sections[i].ID, err)
			}
		}
	}

	if name == "" {
		name = definition.Name
	}

	section := &models.Section{
		ID:       uuid.New().String(),
		StoreID:  c.page.StoreID,
		PageID:   c.page.ID,
		Type:     sectionType,
		Name:     name,
		Config:   definition.DefaultConfig(),
		Visible:  true,
		Position: target,
	}

	if err := c.repo.Create(section); err != nil {
		if reloadErr := c.reload(); reloadErr != nil {
			return nil, reloadErr
		}
		return nil, fmt.Errorf("create section: %w", err)
	}

	// Re-load wholesale: the cheapest way to guarantee the cache matches
	// storage after a multi-step write.
	if err := c.reload(); err != nil {
		return nil, err
	}

	for i := range c.sections {
		if c.sections[i].ID == section.ID {
			created := c.sections[i]
			return &created, nil
		}
	}
	return section, nil
}

// Delete removes a section. Remaining positions are left as-is; readers only
// need a consistent relative order and the next Reorder restores contiguity.
func (c *Composer) Delete(sectionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(sectionID)
	if idx < 0 {
		return ErrSectionNotFound
	}

	if err := c.repo.Delete(sectionID); err != nil {
		return fmt.Errorf("delete section %s: %w", sectionID, err)
	}

	c.sections = append(c.sections[:idx], c.sections[idx+1:]...)
	return nil
}

// Duplicate clones a section: fresh id, deep-copied config, visibility
// copied, position one after the original. Later sections are intentionally
// not renumbered, so the pair may tie on position until the next reorder;
// readers break ties by insertion order. The in-memory list is re-loaded
// after the create so it shows the same tie-break order storage does.
func (c *Composer) Duplicate(sectionID string) (*models.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(sectionID)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	original := c.sections[idx]

	config, err := original.Config.Clone(original.Type)
	if err != nil {
		return nil, fmt.Errorf("clone config of section %s: %w", sectionID, err)
	}

	duplicate := &models.Section{
		ID:                uuid.New().String(),
		StoreID:           original.StoreID,
		PageID:            original.PageID,
		Type:              original.Type,
		Name:              fmt.Sprintf("%s (Copy)", original.Name),
		Config:            config,
		ViewportOverrides: original.ViewportOverrides,
		Visible:           original.Visible,
		Position:          original.Position + 1,
	}

	if err := c.repo.Create(duplicate); err != nil {
		return nil, fmt.Errorf("create duplicate of section %s: %w", sectionID, err)
	}

	if err := c.reload(); err != nil {
		return nil, err
	}

	for i := range c.sections {
		if c.sections[i].ID == duplicate.ID {
			created := c.sections[i]
			return &created, nil
		}
	}
	return duplicate, nil
}

// UpdateConfig replaces a section's configuration. The in-memory value is
// updated optimistically; a failed persist is reported but not rolled back.
func (c *Composer) UpdateConfig(sectionID string, config models.SectionConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(sectionID)
	if idx < 0 {
		return ErrSectionNotFound
	}

	if err := config.Resolve(c.sections[idx].Type); err != nil {
		return fmt.Errorf("resolve config for section %s: %w", sectionID, err)
	}

	c.sections[idx].Config = config

	if err := c.repo.UpdateFields(sectionID, map[string]interface{}{"config": config}); err != nil {
		return fmt.Errorf("persist config of section %s: %w", sectionID, err)
	}
	return nil
}

// UpdateFields merges a partial update into a section, optimistically.
func (c *Composer) UpdateFields(sectionID string, req models.UpdateSectionRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(sectionID)
	if idx < 0 {
		return ErrSectionNotFound
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		c.sections[idx].Name = *req.Name
		fields["name"] = *req.Name
	}
	if req.Visible != nil {
		c.sections[idx].Visible = *req.Visible
		fields["visible"] = *req.Visible
	}
	if req.ViewportOverrides != nil {
		c.sections[idx].ViewportOverrides = *req.ViewportOverrides
		fields["viewport_overrides"] = *req.ViewportOverrides
	}
	if req.Config != nil {
		config := *req.Config
		if err := config.Resolve(c.sections[idx].Type); err != nil {
			return fmt.Errorf("resolve config for section %s: %w", sectionID, err)
		}
		c.sections[idx].Config = config
		fields["config"] = config
	}

	if len(fields) == 0 {
		return nil
	}

	if err := c.repo.UpdateFields(sectionID, fields); err != nil {
		return fmt.Errorf("persist update of section %s: %w", sectionID, err)
	}
	return nil
}

// ToggleVisibility flips a section's visibility flag; ordering is untouched.
func (c *Composer) ToggleVisibility(sectionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(sectionID)
	if idx < 0 {
		return false, ErrSectionNotFound
	}

	visible := !c.sections[idx].Visible
	c.sections[idx].Visible = visible

	if err := c.repo.UpdateFields(sectionID, map[string]interface{}{"visible": visible}); err != nil {
		return visible, fmt.Errorf("persist visibility of section %s: %w", sectionID, err)
	}
	return visible, nil
}

// Reorder rewrites the collection into the caller's order and renumbers
// positions to the contiguous range 0..n-1. Ids missing from the input keep
// their relative order and are appended at the end; unknown ids are ignored.
// The in-memory list is replaced optimistically; if any position write
// fails, the list is re-loaded so the visible order never permanently
// diverges from storage. Writes already applied in the failed sequence stay
// applied.
func (c *Composer) Reorder(orderedIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID := make(map[string]models.Section, len(c.sections))
	for _, section := range c.sections {
		byID[section.ID] = section
	}

	reordered := make([]models.Section, 0, len(c.sections))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		section, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		reordered = append(reordered, section)
	}
	for _, section := range c.sections {
		if !seen[section.ID] {
			reordered = append(reordered, section)
		}
	}

	for i := range reordered {
		reordered[i].Position = i
	}
	c.sections = reordered

	for i := range c.sections {
		if err := c.repo.UpdatePosition(c.sections[i].ID, i); err != nil {
			logger.Error(err, "Failed to persist section order", map[string]interface{}{
				"page_id":    c.page.ID,
				"section_id": c.sections[i].ID,
				"position":   i,
			})
			if reloadErr := c.reload(); reloadErr != nil {
				return reloadErr
			}
			return fmt.Errorf("persist position of section %s: %w", c.sections[i].ID, err)
		}
	}
	return nil
}

func (c *Composer) indexOf(sectionID string) int {
	for i := range c.sections {
		if c.sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}
