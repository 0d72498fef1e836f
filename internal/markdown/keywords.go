package markdown

import "sort"

// stopWords are never auto-extracted as keywords.
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "between": {}, "both": {},
	"cannot": {}, "could": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "even": {}, "every": {}, "from": {},
	"have": {}, "having": {}, "here": {}, "into": {}, "itself": {},
	"just": {}, "like": {}, "made": {}, "make": {}, "many": {},
	"more": {}, "most": {}, "much": {}, "must": {}, "only": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "since": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "until": {},
	"very": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "will": {}, "with": {}, "would": {},
	"your": {},
}

const minKeywordLength = 4

// ExtractKeywords returns up to max keywords from tokens, ranked by
// frequency. Stop words and terms of three characters or fewer are
// dropped; ties break on first appearance so the result is deterministic.
func ExtractKeywords(tokens []Token, max int) []string {
	if max <= 0 {
		return nil
	}
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, t := range tokens {
		if len(t.Text) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[t.Text]; stop {
			continue
		}
		if _, ok := counts[t.Text]; !ok {
			first[t.Text] = i
		}
		counts[t.Text]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return first[terms[i]] < first[terms[j]]
	})

	if len(terms) > max {
		terms = terms[:max]
	}
	return terms
}
