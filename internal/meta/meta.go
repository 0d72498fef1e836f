// Package meta parses the structured metadata preamble embedded at the
// start of page content: a YAML block fenced by "---" lines. Known keys
// carry slug/parent/section/status hints and manual keyword lists; unknown
// keys are preserved in order so a parse/render cycle round-trips them.
package meta

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

const fence = "---"

// Known preamble keys.
const (
	KeySlug     = "slug"
	KeyParent   = "parent"
	KeySection  = "section"
	KeyStatus   = "status"
	KeyKeywords = "keywords"
)

// Preamble is an ordered view of the metadata block.
type Preamble struct {
	fields yaml.MapSlice
}

// Parse splits content into its preamble and body. When content has no
// preamble the returned Preamble is nil and the body is content unchanged.
// A malformed block is treated as body text, never an error.
func Parse(content string) (*Preamble, string) {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != fence {
		return nil, content
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, content
	}
	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	var fields yaml.MapSlice
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, content
	}
	return &Preamble{fields: fields}, body
}

// Strip returns content without its preamble block.
func Strip(content string) string {
	_, body := Parse(content)
	return body
}

// Render re-serializes the preamble in front of body. Key order is the
// parse order, so unknown keys survive a Parse/Render cycle.
func (p *Preamble) Render(body string) string {
	if p == nil || len(p.fields) == 0 {
		return body
	}
	out, err := yaml.Marshal(p.fields)
	if err != nil {
		return body
	}
	return fence + "\n" + string(out) + fence + "\n" + body
}

// GetString returns the value for key when it is a scalar.
func (p *Preamble) GetString(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, item := range p.fields {
		if k, ok := item.Key.(string); ok && k == key {
			switch v := item.Value.(type) {
			case string:
				return v, true
			case nil:
				return "", false
			default:
				return fmt.Sprintf("%v", v), true
			}
		}
	}
	return "", false
}

// GetStrings returns the value for key as a string list. A YAML sequence
// and a comma-separated scalar are both accepted.
func (p *Preamble) GetStrings(key string) []string {
	if p == nil {
		return nil
	}
	for _, item := range p.fields {
		k, ok := item.Key.(string)
		if !ok || k != key {
			continue
		}
		switch v := item.Value.(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				if s := strings.TrimSpace(fmt.Sprintf("%v", e)); s != "" {
					out = append(out, s)
				}
			}
			return out
		case string:
			var out []string
			for _, part := range strings.Split(v, ",") {
				if s := strings.TrimSpace(part); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return nil
}

// Set replaces the value for key, appending the key when absent.
func (p *Preamble) Set(key string, value any) {
	for i, item := range p.fields {
		if k, ok := item.Key.(string); ok && k == key {
			p.fields[i].Value = value
			return
		}
	}
	p.fields = append(p.fields, yaml.MapItem{Key: key, Value: value})
}

// Slug returns the slug hint.
func (p *Preamble) Slug() string { s, _ := p.GetString(KeySlug); return s }

// ParentSlug returns the parent page hint.
func (p *Preamble) ParentSlug() string { s, _ := p.GetString(KeyParent); return s }

// Section returns the section hint.
func (p *Preamble) Section() string { s, _ := p.GetString(KeySection); return s }

// Status returns the lifecycle status hint.
func (p *Preamble) Status() string { s, _ := p.GetString(KeyStatus); return s }

// Keywords returns the manual keyword list.
func (p *Preamble) Keywords() []string { return p.GetStrings(KeyKeywords) }
