package wiki

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/markdown"
	"github.com/quillstonelabs/fernwiki/internal/perm"
)

// ExtractOptions tune an extraction. Parent resolution order: an explicit
// ParentSlug wins; Sibling promotes the new page next to the source under
// the source's own parent; otherwise the new page becomes a child of the
// source.
type ExtractOptions struct {
	Title           string
	ParentSlug      string
	Sibling         bool
	ReplaceWithLink bool
}

// ExtractResult reports both pages touched by an extraction.
type ExtractResult struct {
	Source  *db.Page `json:"source"`
	Created *db.Page `json:"created"`
}

// ExtractSelection splits the byte range [start,end) of a source page
// into a new page. The new page inherits the source's section and status
// and gets a backlink footer; with ReplaceWithLink the extracted span in
// the source is replaced by a link to the new page.
func (e *Engine) ExtractSelection(ctx context.Context, actor perm.Actor, sourceID int64, start, end int, opts ExtractOptions) (*ExtractResult, error) {
	source, err := e.Pages.ByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if start < 0 || start >= end || end > len(source.Content) {
		return nil, validationf("extraction bounds [%d,%d) out of range for content of %d bytes", start, end, len(source.Content))
	}
	// byte offsets must land on rune boundaries or the cut corrupts both pages
	if !utf8.RuneStart(source.Content[start]) || (end < len(source.Content) && !utf8.RuneStart(source.Content[end])) {
		return nil, validationf("extraction bounds [%d,%d) split a multi-byte character", start, end)
	}
	return e.extract(ctx, actor, source, start, end, opts)
}

// ExtractHeading splits a whole heading section out of a source page. The
// section runs from the heading line to the next heading of equal or
// shallower level, or the end of the document. Heading matching is
// case-insensitive; level 0 matches any level.
func (e *Engine) ExtractHeading(ctx context.Context, actor perm.Actor, sourceID int64, heading string, level int, opts ExtractOptions) (*ExtractResult, error) {
	source, err := e.Pages.ByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	start, end, ok := markdown.SectionBounds(source.Content, heading, level)
	if !ok {
		return nil, notFound("heading", heading)
	}
	if opts.Title == "" {
		opts.Title = heading
	}
	return e.extract(ctx, actor, source, start, end, opts)
}

func (e *Engine) extract(ctx context.Context, actor perm.Actor, source *db.Page, start, end int, opts ExtractOptions) (*ExtractResult, error) {
	extracted := strings.TrimSpace(source.Content[start:end])
	if extracted == "" {
		return nil, validationf("extracted span is empty")
	}

	title := opts.Title
	if title == "" {
		if h, ok := markdown.FirstHeading(extracted); ok {
			title = h
		} else {
			return nil, validationf("no title given and extracted text has no heading")
		}
	}

	parentSlug := opts.ParentSlug
	if parentSlug == "" && !opts.Sibling {
		parentSlug = source.Slug
	}
	if parentSlug == "" && opts.Sibling && source.ParentID != nil {
		parent, err := e.Pages.ByID(ctx, *source.ParentID)
		if err != nil {
			return nil, err
		}
		parentSlug = parent.Slug
	}

	content := extracted + fmt.Sprintf("\n\n---\n\nExtracted from [%s](%s)\n", source.Title, source.Slug)
	created, err := e.Pages.Create(ctx, actor, CreateParams{
		Title:      title,
		Content:    content,
		ParentSlug: parentSlug,
		Section:    source.Section,
		Status:     source.Status,
	})
	if err != nil {
		return nil, err
	}

	if opts.ReplaceWithLink {
		linkText := created.Title
		if h, ok := markdown.FirstHeading(extracted); ok {
			linkText = h
		}
		rewritten := source.Content[:start] +
			fmt.Sprintf("[%s](%s)", linkText, created.Slug) +
			source.Content[end:]
		res, err := e.Pages.Update(ctx, actor, source.ID, UpdateParams{Content: &rewritten})
		if err != nil {
			return nil, err
		}
		source = res.Page
	}

	if _, err := e.History.Snapshot(ctx, created.ID, actor, fmt.Sprintf("extracted from %s", source.Slug)); err != nil {
		return nil, err
	}
	if opts.ReplaceWithLink {
		if _, err := e.History.Snapshot(ctx, source.ID, actor, fmt.Sprintf("extracted section to %s", created.Slug)); err != nil {
			return nil, err
		}
	}
	if err := e.refresh(ctx, created); err != nil {
		return nil, err
	}
	if opts.ReplaceWithLink {
		if err := e.refresh(ctx, source); err != nil {
			return nil, err
		}
	}
	e.mirror(created)
	e.mirror(source)

	e.log.Info("section extracted", "source", source.Slug, "created", created.Slug, "actor", actor.ID)
	return &ExtractResult{Source: source, Created: created}, nil
}
