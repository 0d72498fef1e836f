package wiki

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/markdown"
	"github.com/quillstonelabs/fernwiki/internal/meta"
	"github.com/quillstonelabs/fernwiki/internal/perm"
	"github.com/quillstonelabs/fernwiki/internal/shared"
)

// Scoring weights. Keyword hits outrank full-text hits; an exact term
// match doubles either weight over a prefix match.
const (
	fullTextWeight   = 1.0
	keywordWeight    = 10.0
	exactMultiplier  = 2.0
	snippetContext   = 5
	maxAutoKeywords  = 10
	defaultSearchLim = 20
)

// SearchIndex maintains the per-page inverted index and answers ranked
// queries over it. Index rows are fully derived: a reindex drops and
// rebuilds them in one transaction so readers never see a half-indexed
// page.
type SearchIndex struct {
	store *db.Store
	log   *log.Logger
}

// NewSearchIndex returns an index backed by store.
func NewSearchIndex(store *db.Store, logger *log.Logger) *SearchIndex {
	return &SearchIndex{store: store, log: logger}
}

// Reindex rebuilds the index rows of a page: one full-text entry per
// distinct token with a snippet around its first occurrence, up to ten
// auto-extracted keywords, and the manual keywords declared in the
// content's metadata preamble. Manual keywords win over automatic ones
// with the same term.
func (s *SearchIndex) Reindex(ctx context.Context, pageID int64, title, content string) error {
	pre, body := meta.Parse(content)
	tokens := markdown.Tokenize(body)

	var entries []db.IndexEntry
	seen := make(map[string]struct{}, len(tokens))
	for i, tok := range tokens {
		if _, ok := seen[tok.Text]; ok {
			continue
		}
		seen[tok.Text] = struct{}{}
		pos := tok.Position
		entries = append(entries, db.IndexEntry{
			Term:     tok.Text,
			Snippet:  markdown.Snippet(tokens, i, snippetContext),
			Position: &pos,
		})
	}
	// title-only terms have no offset into the body; Position stays nil
	for _, tok := range markdown.Tokenize(title) {
		if _, ok := seen[tok.Text]; ok {
			continue
		}
		seen[tok.Text] = struct{}{}
		entries = append(entries, db.IndexEntry{Term: tok.Text, Snippet: title})
	}

	manual := make(map[string]struct{})
	if pre != nil {
		for _, kw := range pre.Keywords() {
			term := strings.ToLower(strings.TrimSpace(kw))
			if term == "" {
				continue
			}
			if _, ok := manual[term]; ok {
				continue
			}
			manual[term] = struct{}{}
			entries = append(entries, db.IndexEntry{Term: term, IsKeyword: true, IsManual: true})
		}
	}
	for _, term := range markdown.ExtractKeywords(tokens, maxAutoKeywords) {
		if _, ok := manual[term]; ok {
			continue
		}
		entries = append(entries, db.IndexEntry{Term: term, IsKeyword: true})
	}

	if err := s.store.ReplaceIndexEntries(ctx, pageID, entries); err != nil {
		return err
	}
	s.log.Debug("page reindexed", "page", pageID, "entries", len(entries))
	return nil
}

// SearchQuery is one ranked retrieval request.
type SearchQuery struct {
	Query         string
	Limit         int
	Offset        int
	Section       string
	IncludeDrafts bool
}

// SearchHit is one ranked result. Score is normalized to [0,1] against
// the best hit in the filtered result set.
type SearchHit struct {
	Page    db.Page `json:"page"`
	Score   float64 `json:"relevance_score"`
	Snippet string  `json:"snippet,omitempty"`
}

type hitAccum struct {
	page      db.Page
	raw       float64
	snippet   string
	bestEntry float64
}

// Search tokenizes the query, matches index terms by prefix, and scores
// per page. Archived pages never appear; drafts appear only for their
// creating writer or an admin, and only when asked for. Filtering happens
// after ranking and before pagination.
func (s *SearchIndex) Search(ctx context.Context, actor perm.Actor, q SearchQuery) ([]SearchHit, error) {
	terms := markdown.Tokenize(q.Query)
	if len(terms) == 0 {
		return nil, nil
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLim
	}

	accum := make(map[int64]*hitAccum)
	queried := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, ok := queried[term.Text]; ok {
			continue
		}
		queried[term.Text] = struct{}{}
		matches, err := s.store.EntriesMatching(ctx, term.Text)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			score := fullTextWeight
			if m.Entry.IsKeyword {
				score = keywordWeight
			}
			if m.Entry.Term == term.Text {
				score *= exactMultiplier
			}
			acc, ok := accum[m.Page.ID]
			if !ok {
				acc = &hitAccum{page: m.Page}
				accum[m.Page.ID] = acc
			}
			acc.raw += score
			if m.Entry.Snippet != "" && score > acc.bestEntry {
				acc.bestEntry = score
				acc.snippet = m.Entry.Snippet
			}
		}
	}

	ranked := make([]*hitAccum, 0, len(accum))
	for _, acc := range accum {
		ranked = append(ranked, acc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].raw != ranked[j].raw {
			return ranked[i].raw > ranked[j].raw
		}
		return ranked[i].page.ID < ranked[j].page.ID
	})

	filtered := ranked[:0]
	for _, acc := range ranked {
		if acc.page.Status == StatusArchived {
			continue
		}
		if acc.page.Status == StatusDraft {
			if !q.IncludeDrafts || !perm.CanSeeDraft(actor, acc.page.CreatedBy) {
				continue
			}
		}
		if q.Section != "" && acc.page.Section != q.Section {
			continue
		}
		filtered = append(filtered, acc)
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	top := filtered[0].raw
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	hits := make([]SearchHit, 0, end-start)
	for _, acc := range filtered[start:end] {
		hits = append(hits, SearchHit{Page: acc.page, Score: acc.raw / top, Snippet: acc.snippet})
	}
	return hits, nil
}

// AddManualKeyword tags a page with term outside the reindex cycle. An
// automatic keyword with the same term is promoted to manual.
func (s *SearchIndex) AddManualKeyword(ctx context.Context, actor perm.Actor, pageID int64, term string) error {
	if !perm.Allowed(actor.Role, actor.ID, actor.ID).Has(perm.CapTagKeywords) {
		return forbiddenf("role %s cannot tag keywords", actor.Role)
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return validationf("keyword must not be empty")
	}
	existing, err := s.store.KeywordEntries(ctx, pageID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Term == term {
			if e.IsManual {
				return nil
			}
			if _, err := s.store.DeleteKeywordEntry(ctx, pageID, term); err != nil {
				return err
			}
			break
		}
	}
	_, err = s.store.InsertIndexEntry(ctx, db.IndexEntry{
		PageID: pageID, Term: term, IsKeyword: true, IsManual: true,
	})
	return err
}

// RemoveKeyword drops a keyword tag. Missing tags are a NotFoundError.
func (s *SearchIndex) RemoveKeyword(ctx context.Context, actor perm.Actor, pageID int64, term string) error {
	if !perm.Allowed(actor.Role, actor.ID, actor.ID).Has(perm.CapTagKeywords) {
		return forbiddenf("role %s cannot tag keywords", actor.Role)
	}
	removed, err := s.store.DeleteKeywordEntry(ctx, pageID, strings.ToLower(strings.TrimSpace(term)))
	if err != nil {
		return err
	}
	if !removed {
		return notFound("keyword", term)
	}
	return nil
}

// KeywordsFor returns a page's keyword entries, manual tags first.
func (s *SearchIndex) KeywordsFor(ctx context.Context, pageID int64) ([]db.IndexEntry, error) {
	return s.store.KeywordEntries(ctx, pageID)
}

// IndexGroup is one letter bucket of the master index.
type IndexGroup struct {
	Letter string    `json:"letter"`
	Pages  []db.Page `json:"pages"`
}

// MasterIndex groups published pages by the case-normalized first
// character of their title, optionally narrowed to one letter or section.
func (s *SearchIndex) MasterIndex(ctx context.Context, letter, section string) ([]IndexGroup, error) {
	pages, err := s.store.PublishedPages(ctx, section)
	if err != nil {
		return nil, err
	}
	letter = shared.UpperFirst(letter)

	var groups []IndexGroup
	byLetter := make(map[string]int)
	for _, p := range pages {
		key := shared.UpperFirst(p.Title)
		if letter != "" && key != letter {
			continue
		}
		i, ok := byLetter[key]
		if !ok {
			i = len(groups)
			byLetter[key] = i
			groups = append(groups, IndexGroup{Letter: key})
		}
		groups[i].Pages = append(groups[i].Pages, p)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Letter < groups[j].Letter })
	return groups, nil
}
