// Package rank scores catalogue products against a free-text query.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// Score weights.
const (
	ScoreTitleExact    = 1000
	ScoreTitleContains = 500
	ScoreTitleAllToken = 300
	ScoreTitleToken    = 50
	ScoreTypo          = 100
	ScoreHandle        = 200
	ScoreTagExact      = 150
	ScoreTagContains   = 75
	ScoreProductType   = 100
	ScoreVendor        = 100
	ScoreMetafield     = 50
)

// minTypoTokenLen is the length a query token must exceed to earn typo credit.
const minTypoTokenLen = 3

// Entry pairs a product with its score.
type Entry struct {
	Product domain.Product
	Score   int
	// Exact is set when the title equals the query.
	Exact bool
}

// query is a normalised search query.
type query struct {
	text   string
	tokens []string
}

func newQuery(raw string) query {
	text := strings.ToLower(strings.TrimSpace(raw))
	return query{text: text, tokens: strings.Fields(text)}
}

// Score returns the relevance of p for raw. A blank query scores 0.
func Score(p domain.Product, raw string) int {
	q := newQuery(raw)
	if q.text == "" {
		return 0
	}
	return score(p, q)
}

func score(p domain.Product, q query) int {
	title := strings.ToLower(p.Title)
	total := titleScore(title, q)

	for _, word := range strings.Fields(title) {
		for _, tok := range q.tokens {
			if utf8.RuneCountInString(tok) > minTypoTokenLen && Levenshtein(word, tok) == 1 {
				total += ScoreTypo
			}
		}
	}

	if fieldMatches(p.Handle, q.text) {
		total += ScoreHandle
	}
	total += tagScore(p.Tags, q.text)
	if fieldMatches(p.ProductType, q.text) {
		total += ScoreProductType
	}
	if fieldMatches(p.Vendor, q.text) {
		total += ScoreVendor
	}

	for _, v := range []string{
		p.MeatType, p.CutFamily, p.SpiceFamily, p.BraaiGearFamily,
		p.GroceryFamily, p.BulkType, p.DeliType,
	} {
		if metafieldMatches(v, q.text) {
			total += ScoreMetafield
		}
	}
	return total
}

func titleScore(title string, q query) int {
	switch {
	case title == q.text:
		return ScoreTitleExact
	case strings.Contains(title, q.text):
		// A title that starts with the query also contains it, so the
		// starts-with tier (+400) can never outscore this one.
		return ScoreTitleContains
	}

	found := 0
	for _, tok := range q.tokens {
		if strings.Contains(title, tok) {
			found++
		}
	}
	if found == len(q.tokens) {
		return ScoreTitleAllToken
	}
	return ScoreTitleToken * found
}

func tagScore(tags []string, text string) int {
	contains := false
	for _, tag := range tags {
		t := strings.ToLower(tag)
		if t == text {
			return ScoreTagExact
		}
		contains = contains || strings.Contains(t, text)
	}
	if contains {
		return ScoreTagContains
	}
	return 0
}

// fieldMatches reports an exact or substring match, case-insensitively.
func fieldMatches(field, text string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), text)
}

// metafieldMatches also tries the spaced form of a slugged value so that
// "sunday roast" finds "sunday-roast".
func metafieldMatches(value, text string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(value, text) || strings.Contains(strings.ReplaceAll(value, "-", " "), text)
}

// Rank scores every product, drops those scoring 0 and orders the rest. Exact
// title matches come first, then higher scores; ties keep catalogue order.
// A blank query returns every product unscored in the original order.
func Rank(products []domain.Product, raw string) []Entry {
	q := newQuery(raw)
	if q.text == "" {
		out := make([]Entry, len(products))
		for i, p := range products {
			out[i] = Entry{Product: p}
		}
		return out
	}

	out := make([]Entry, 0, len(products))
	for _, p := range products {
		if s := score(p, q); s > 0 {
			out = append(out, Entry{
				Product: p,
				Score:   s,
				Exact:   strings.ToLower(p.Title) == q.text,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Exact != out[j].Exact {
			return out[i].Exact
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// Search returns the ranked products for raw. A blank query returns products
// unchanged.
func Search(products []domain.Product, raw string) []domain.Product {
	if strings.TrimSpace(raw) == "" {
		return products
	}
	entries := Rank(products, raw)
	out := make([]domain.Product, len(entries))
	for i, e := range entries {
		out[i] = e.Product
	}
	return out
}
