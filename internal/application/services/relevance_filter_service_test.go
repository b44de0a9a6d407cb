package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yachtdrop/backend/internal/domain/entities"
)

func namedProduct(id, name string) *entities.Product {
	p := testProduct(id, name, 20)
	return p
}

func TestRelevanceFilter_PrecisionModeDropsWeakMatches(t *testing.T) {
	products := []*entities.Product{
		namedProduct("1", "Boat Cover Waterproof"),
		namedProduct("2", "Premium Boat Cover"),
		namedProduct("3", "Boat Cover Small"),
		namedProduct("4", "Boathook Telescopic"),
		namedProduct("5", "Deck Brush"),
	}

	filtered := RelevanceFilterService{}.Filter(products, []string{"boat", "cover"})

	require.Len(t, filtered, 3)
	for _, p := range filtered {
		assert.Contains(t, p.Name, "Cover")
	}
}

func TestRelevanceFilter_SingleHitTierWhenPrecisionUnavailable(t *testing.T) {
	products := []*entities.Product{
		namedProduct("1", "Anchor Galvanized"),
		namedProduct("2", "Anchor Chain"),
		namedProduct("3", "Folding Anchor"),
		namedProduct("4", "Deck Brush"),
	}

	filtered := RelevanceFilterService{}.Filter(products, []string{"anchor"})

	require.Len(t, filtered, 3)
	for _, p := range filtered {
		assert.Contains(t, p.Name, "Anchor")
	}
}

func TestRelevanceFilter_NeverUnderDelivers(t *testing.T) {
	// Only two products match at all, so nothing gets dropped; matches
	// still rank first.
	products := []*entities.Product{
		namedProduct("1", "Deck Brush"),
		namedProduct("2", "Anchor Chain"),
		namedProduct("3", "Mooring Rope"),
		namedProduct("4", "Folding Anchor"),
	}

	filtered := RelevanceFilterService{}.Filter(products, []string{"anchor"})

	require.Len(t, filtered, 4)
	assert.Contains(t, filtered[0].Name, "Anchor")
	assert.Contains(t, filtered[1].Name, "Anchor")
}

func TestRelevanceFilter_PluralSuffixMatches(t *testing.T) {
	products := []*entities.Product{
		namedProduct("1", "Boat Covers Deluxe"),
		namedProduct("2", "Sail Cover"),
		namedProduct("3", "Cover All-Weather"),
		namedProduct("4", "Deck Brush"),
	}

	filtered := RelevanceFilterService{}.Filter(products, []string{"cover"})

	require.Len(t, filtered, 3)
	ids := []string{filtered[0].ID, filtered[1].ID, filtered[2].ID}
	assert.NotContains(t, ids, "4")
}

func TestRelevanceFilter_SkipsSmallSets(t *testing.T) {
	products := []*entities.Product{
		namedProduct("1", "Unrelated"),
		namedProduct("2", "Also Unrelated"),
		namedProduct("3", "Still Unrelated"),
	}

	filtered := RelevanceFilterService{}.Filter(products, []string{"anchor"})

	assert.Len(t, filtered, 3)
}

func TestRelevanceFilter_SkipsWithoutKeywords(t *testing.T) {
	products := []*entities.Product{}
	for i := 0; i < 5; i++ {
		products = append(products, namedProduct(fmt.Sprint(i), "Product"))
	}

	assert.Len(t, RelevanceFilterService{}.Filter(products, nil), 5)
}

func TestRelevanceFilter_MatchesBrandAndDescription(t *testing.T) {
	match := testProduct("1", "Marine Sealant", 15)
	match.Brand = "3M"
	other1 := namedProduct("2", "Deck Brush")
	other2 := namedProduct("3", "Mooring Rope")
	other3 := namedProduct("4", "Fender Set")

	filtered := RelevanceFilterService{}.Filter(
		[]*entities.Product{other1, match, other2, other3}, []string{"3m"})

	assert.Equal(t, "1", filtered[0].ID)
}
