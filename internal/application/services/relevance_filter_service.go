package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yachtdrop/backend/internal/domain/entities"
)

var productWordRe = regexp.MustCompile(`[^\w\s]`)

// RelevanceFilterService removes retrieval false positives by re-scoring
// products against the user's keywords. Broadened full-text search matches
// any term, so "boat cover" can surface boathooks; counting whole-word
// keyword hits in the product text fixes the ranking.
type RelevanceFilterService struct{}

// NewRelevanceFilterService creates a relevance filter
func NewRelevanceFilterService() RelevanceFilterService {
	return RelevanceFilterService{}
}

// Filter re-ranks products by keyword hit count and, when the result set is
// strong enough, drops weak matches. It never returns fewer than the input
// when doing so would leave the user with under three products.
func (RelevanceFilterService) Filter(products []*entities.Product, keywords []string) []*entities.Product {
	if len(keywords) == 0 || len(products) <= 3 {
		return products
	}

	type scoredProduct struct {
		product *entities.Product
		hits    int
	}

	scored := make([]scoredProduct, 0, len(products))
	for _, product := range products {
		text := strings.ToLower(product.Name + " " + product.Brand + " " + product.ShortDesc)
		words := strings.Fields(productWordRe.ReplaceAllString(text, " "))

		hits := 0
		for _, keyword := range keywords {
			if matchesKeyword(words, keyword) {
				hits++
			}
		}
		scored = append(scored, scoredProduct{product: product, hits: hits})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].hits > scored[j].hits
	})

	all := make([]*entities.Product, len(scored))
	multi := []*entities.Product{}
	some := []*entities.Product{}
	for i, sp := range scored {
		all[i] = sp.product
		if sp.hits >= 2 {
			multi = append(multi, sp.product)
		}
		if sp.hits > 0 {
			some = append(some, sp.product)
		}
	}

	// Precision mode: enough strong matches to drop the single-hit tail.
	if len(multi) >= 3 && len(keywords) >= 2 {
		return multi
	}
	if len(some) >= 3 {
		return some
	}
	return all
}

// matchesKeyword reports whether any word equals the keyword or its naive
// plural ("cover" matches "cover", "covers", "coveres"). Deliberately not a
// stemmer: the over-match on -es is harmless here and a real stemmer would
// change ranking behaviour the storefront depends on.
func matchesKeyword(words []string, keyword string) bool {
	for _, word := range words {
		if word == keyword || strings.HasPrefix(word, keyword+"s") || strings.HasPrefix(word, keyword+"es") {
			return true
		}
	}
	return false
}
