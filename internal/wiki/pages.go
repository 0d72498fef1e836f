package wiki

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/markdown"
	"github.com/quillstonelabs/fernwiki/internal/meta"
	"github.com/quillstonelabs/fernwiki/internal/perm"
	"github.com/quillstonelabs/fernwiki/internal/shared"
)

// Page lifecycle statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// OrphanageSlug is the reserved slug of the system page that holds
// children of deleted pages.
const OrphanageSlug = "orphanage"

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PageManager owns the page forest: slug uniqueness, parent/child
// relationships, cycle prevention and orphan reparenting.
type PageManager struct {
	store *db.Store
	log   *log.Logger
}

// NewPageManager returns a manager backed by store.
func NewPageManager(store *db.Store, logger *log.Logger) *PageManager {
	return &PageManager{store: store, log: logger}
}

// Slugify derives a slug from a title: lower-cased, non-alphanumeric runs
// collapsed to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func validStatus(status string) bool {
	switch status {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// FilePath is the page's location in the content mirror.
func FilePath(section, slug string) string {
	if section == "" {
		return slug + ".md"
	}
	return path.Join(section, slug+".md")
}

// CreateParams are the inputs to Create. Zero-valued fields fall back to
// hints in the content's metadata preamble, then to defaults.
type CreateParams struct {
	Title      string
	Content    string
	Slug       string
	ParentSlug string
	Section    string
	Status     string
	SortOrder  int
}

// Create inserts a new page at version 1. An omitted slug is generated
// from the title and de-duplicated against existing slugs; an explicit
// slug must pass the pattern check and be free. Content line endings
// are normalized to LF before anything is derived from them.
func (m *PageManager) Create(ctx context.Context, actor perm.Actor, p CreateParams) (*db.Page, error) {
	if !perm.Allowed(actor.Role, actor.ID, actor.ID).Has(perm.CapEditPages) {
		return nil, forbiddenf("role %s cannot create pages", actor.Role)
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, validationf("title is required")
	}
	p.Content = shared.NormalizeLineEndings(p.Content)

	if pre, _ := meta.Parse(p.Content); pre != nil {
		if p.Slug == "" {
			p.Slug = pre.Slug()
		}
		if p.ParentSlug == "" {
			p.ParentSlug = pre.ParentSlug()
		}
		if p.Section == "" {
			p.Section = pre.Section()
		}
		if p.Status == "" {
			p.Status = pre.Status()
		}
	}
	if p.Status == "" {
		p.Status = StatusPublished
	}
	if !validStatus(p.Status) {
		return nil, validationf("invalid status %q", p.Status)
	}

	explicit := p.Slug != ""
	if explicit {
		if !slugRe.MatchString(p.Slug) {
			return nil, validationf("invalid slug %q", p.Slug)
		}
	} else {
		p.Slug = Slugify(p.Title)
		if p.Slug == "" {
			return nil, validationf("title %q yields an empty slug", p.Title)
		}
	}
	slug, err := m.dedupeSlug(ctx, p.Slug, explicit)
	if err != nil {
		return nil, err
	}

	var parentID *int64
	if p.ParentSlug != "" {
		parent, err := m.BySlug(ctx, p.ParentSlug)
		if err != nil {
			return nil, err
		}
		parentID = shared.Int64Ptr(parent.ID)
	}

	page := &db.Page{
		Title:     p.Title,
		Slug:      slug,
		Content:   p.Content,
		ParentID:  parentID,
		Section:   p.Section,
		SortOrder: p.SortOrder,
		Status:    p.Status,
		Version:   1,
		SizeBytes: markdown.Size(p.Content),
		WordCount: markdown.WordCount(p.Content),
		FilePath:  FilePath(p.Section, slug),
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
	}
	id, err := m.store.InsertPage(ctx, page)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflictf("slug %q already exists", slug)
		}
		return nil, err
	}
	page.ID = id
	m.log.Debug("page created", "slug", slug, "id", id, "actor", actor.ID)
	return m.ByID(ctx, id)
}

// dedupeSlug finds a free slug based on base. Explicit slugs must be free
// as-is; generated slugs get a numeric suffix on collision.
func (m *PageManager) dedupeSlug(ctx context.Context, base string, explicit bool) (string, error) {
	taken, err := m.store.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base, nil
	}
	if explicit {
		return "", validationf("slug %q already exists", base)
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
	}
}

// ByID returns the page with id, or NotFoundError.
func (m *PageManager) ByID(ctx context.Context, id int64) (*db.Page, error) {
	p, err := m.store.GetPage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("page", fmt.Sprintf("%d", id))
	}
	return p, err
}

// BySlug returns the page with slug, or NotFoundError.
func (m *PageManager) BySlug(ctx context.Context, slug string) (*db.Page, error) {
	p, err := m.store.GetPageBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("page", slug)
	}
	return p, err
}

// UpdateParams are the partial-update inputs to Update. Nil fields are
// untouched; an empty ParentSlug detaches the page to the top level.
type UpdateParams struct {
	Title      *string
	Content    *string
	Slug       *string
	ParentSlug *string
	Section    *string
	Status     *string
	SortOrder  *int
}

// UpdateResult reports what an update changed, so the engine can run the
// follow-up snapshot, link-sync, reindex and rename propagation.
type UpdateResult struct {
	Page           *db.Page
	ContentChanged bool
	SlugChanged    bool
	OldSlug        string
	OldFilePath    string
}

// Update applies a partial edit. A parent change is validated against the
// ancestor chain so the tree never forms a cycle; a content change
// recomputes the size metrics and bumps the version counter by one.
func (m *PageManager) Update(ctx context.Context, actor perm.Actor, id int64, p UpdateParams) (*UpdateResult, error) {
	page, err := m.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !perm.Allowed(actor.Role, actor.ID, page.CreatedBy).Has(perm.CapEditPages) {
		return nil, forbiddenf("role %s cannot edit pages", actor.Role)
	}

	fields := map[string]any{"updated_by": actor.ID}
	res := &UpdateResult{OldSlug: page.Slug, OldFilePath: page.FilePath}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, validationf("title is required")
		}
		fields["title"] = *p.Title
	}
	if p.Status != nil {
		if !validStatus(*p.Status) {
			return nil, validationf("invalid status %q", *p.Status)
		}
		fields["status"] = *p.Status
	}
	if p.SortOrder != nil {
		fields["sort_order"] = *p.SortOrder
	}

	newSlug := page.Slug
	if p.Slug != nil && *p.Slug != page.Slug {
		if !slugRe.MatchString(*p.Slug) {
			return nil, validationf("invalid slug %q", *p.Slug)
		}
		newSlug = *p.Slug
		fields["slug"] = newSlug
		res.SlugChanged = true
	}

	newSection := page.Section
	if p.Section != nil && *p.Section != page.Section {
		newSection = *p.Section
		fields["section"] = newSection
	}
	if res.SlugChanged || newSection != page.Section {
		fields["file_path"] = FilePath(newSection, newSlug)
	}

	if p.ParentSlug != nil {
		if *p.ParentSlug == "" {
			fields["parent_id"] = nil
		} else {
			parent, err := m.BySlug(ctx, *p.ParentSlug)
			if err != nil {
				return nil, err
			}
			if err := m.checkCycle(ctx, id, parent.ID); err != nil {
				return nil, err
			}
			fields["parent_id"] = parent.ID
		}
	}

	if p.Content != nil {
		content := shared.NormalizeLineEndings(*p.Content)
		if content != page.Content {
			fields["content"] = content
			fields["size_bytes"] = markdown.Size(content)
			fields["word_count"] = markdown.WordCount(content)
			fields["version"] = page.Version + 1
			res.ContentChanged = true
		}
	}

	if err := m.store.UpdatePageFields(ctx, id, fields); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflictf("slug %q already exists", newSlug)
		}
		return nil, err
	}
	res.Page, err = m.ByID(ctx, id)
	return res, err
}

// checkCycle walks the ancestor chain from parentID and fails if it
// reaches pageID. The walk is bounded by the chain itself going acyclic
// on every prior write; a visited set guards against corrupted data.
func (m *PageManager) checkCycle(ctx context.Context, pageID, parentID int64) error {
	visited := map[int64]struct{}{}
	for current := &parentID; current != nil; {
		if *current == pageID {
			return validationf("circular reference: page %d cannot be its own ancestor", pageID)
		}
		if _, seen := visited[*current]; seen {
			return validationf("circular reference: ancestor chain of page %d loops", *current)
		}
		visited[*current] = struct{}{}
		ancestor, err := m.ByID(ctx, *current)
		if err != nil {
			return err
		}
		current = ancestor.ParentID
	}
	return nil
}

// DeleteResult reports the deleted page and the children moved to the
// orphanage.
type DeleteResult struct {
	Page     *db.Page
	Orphaned []db.Page
}

// Delete removes a page. Direct children are reparented to the orphanage
// first, flagged orphaned with a record of their old parent; version and
// link rows go with the page. System pages cannot be deleted.
func (m *PageManager) Delete(ctx context.Context, actor perm.Actor, id int64) (*DeleteResult, error) {
	page, err := m.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !perm.Allowed(actor.Role, actor.ID, page.CreatedBy).Has(perm.CapDeletePages) {
		return nil, forbiddenf("role %s cannot delete pages", actor.Role)
	}
	if page.IsSystem {
		return nil, forbiddenf("page %q is a system page", page.Slug)
	}

	children, err := m.store.Children(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &DeleteResult{Page: page}
	if len(children) > 0 {
		orphanage, err := m.Orphanage(ctx)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			err := m.store.UpdatePageFields(ctx, child.ID, map[string]any{
				"parent_id":     orphanage.ID,
				"is_orphaned":   true,
				"orphaned_from": id,
			})
			if err != nil {
				return nil, err
			}
			moved, err := m.ByID(ctx, child.ID)
			if err != nil {
				return nil, err
			}
			res.Orphaned = append(res.Orphaned, *moved)
		}
		m.log.Info("children orphaned", "page", page.Slug, "count", len(children))
	}

	if err := m.store.DeletePage(ctx, id); err != nil {
		return nil, err
	}
	m.log.Debug("page deleted", "slug", page.Slug, "actor", actor.ID)
	return res, nil
}

// Orphanage returns the reserved holding page, creating it on first use.
// Creation is idempotent; a racing create falls back to the winner's row.
func (m *PageManager) Orphanage(ctx context.Context) (*db.Page, error) {
	page, err := m.store.GetPageBySlug(ctx, OrphanageSlug)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	content := "# Orphanage\n\nPages whose parent was deleted live here until reassigned.\n"
	_, err = m.store.InsertPage(ctx, &db.Page{
		Title:     "Orphanage",
		Slug:      OrphanageSlug,
		Content:   content,
		Status:    StatusPublished,
		IsSystem:  true,
		Version:   1,
		SizeBytes: markdown.Size(content),
		WordCount: markdown.WordCount(content),
		FilePath:  FilePath("", OrphanageSlug),
	})
	if err != nil && !db.IsUniqueViolation(err) {
		return nil, err
	}
	return m.BySlug(ctx, OrphanageSlug)
}

// ReassignOrphan moves an orphaned page to newParentSlug, or to the top
// level when nil, clearing the orphan flags. Pages that are not orphaned
// are left alone and reported as zero affected.
func (m *PageManager) ReassignOrphan(ctx context.Context, actor perm.Actor, id int64, newParentSlug *string) (int, error) {
	if !perm.Allowed(actor.Role, actor.ID, actor.ID).Has(perm.CapManageOrphans) {
		return 0, forbiddenf("role %s cannot reassign orphans", actor.Role)
	}
	page, err := m.ByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !page.IsOrphaned {
		return 0, nil
	}

	fields := map[string]any{
		"is_orphaned":   false,
		"orphaned_from": nil,
		"updated_by":    actor.ID,
	}
	if newParentSlug != nil && *newParentSlug != "" {
		parent, err := m.BySlug(ctx, *newParentSlug)
		if err != nil {
			return 0, err
		}
		if err := m.checkCycle(ctx, id, parent.ID); err != nil {
			return 0, err
		}
		fields["parent_id"] = parent.ID
	} else {
		fields["parent_id"] = nil
	}
	if err := m.store.UpdatePageFields(ctx, id, fields); err != nil {
		return 0, err
	}
	return 1, nil
}

// ListFilter narrows List.
type ListFilter struct {
	ParentSlug string
	TopLevel   bool
	Section    string
	Status     string
	Orphaned   bool
}

// List returns pages matching the filter. Draft pages are visible only to
// their creating writer or an admin.
func (m *PageManager) List(ctx context.Context, actor perm.Actor, f ListFilter) ([]db.Page, error) {
	filter := db.PageFilter{
		TopLevel: f.TopLevel,
		Section:  f.Section,
		Status:   f.Status,
		Orphaned: f.Orphaned,
	}
	if f.ParentSlug != "" {
		parent, err := m.BySlug(ctx, f.ParentSlug)
		if err != nil {
			return nil, err
		}
		filter.ParentID = &parent.ID
	}
	pages, err := m.store.ListPages(ctx, filter)
	if err != nil {
		return nil, err
	}
	visible := pages[:0]
	for _, p := range pages {
		if p.Status == StatusDraft && !perm.CanSeeDraft(actor, p.CreatedBy) {
			continue
		}
		visible = append(visible, p)
	}
	return visible, nil
}

// Children returns the direct children of a page.
func (m *PageManager) Children(ctx context.Context, id int64) ([]db.Page, error) {
	return m.store.Children(ctx, id)
}
