package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Token is a single indexable word with its character position in the
// plain-text rendering of the source.
type Token struct {
	Text     string
	Position int
}

var wordRe = regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)*`)

// PlainText strips markdown syntax from source: emphasis, code and link
// markers are removed, link and image targets are dropped, link text is
// kept. Code block contents survive as plain text.
func PlainText(source string) string {
	src := []byte(source)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// Tokenize lower-cases the plain-text form of source and splits it on word
// boundaries, recording each word's character position.
func Tokenize(source string) []Token {
	plain := strings.ToLower(PlainText(source))
	locs := wordRe.FindAllStringIndex(plain, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tokens = append(tokens, Token{Text: plain[loc[0]:loc[1]], Position: loc[0]})
	}
	return tokens
}

// Snippet joins the tokens in a window of +-context around index i.
func Snippet(tokens []Token, i, context int) string {
	lo := i - context
	if lo < 0 {
		lo = 0
	}
	hi := i + context + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}
	words := make([]string, 0, hi-lo)
	for _, t := range tokens[lo:hi] {
		words = append(words, t.Text)
	}
	return strings.Join(words, " ")
}
