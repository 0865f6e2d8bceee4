package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		"Chef's Specials": {
			{Name: "Orange Chicken", Price: 12.99, ID: "m1"},
			{Name: "Beef with Broccoli", Price: 13.49, ID: "m2"},
		},
		"Chicken": {
			{Name: "Kung Pao Chicken", Price: 11.99, ID: "m3"},
			{Name: "Sesame Chicken", Price: 11.49, ID: "m4"},
		},
		"Soups": {
			{Name: "Hot and Sour Soup", Price: 4.99, ID: "m5"},
		},
		"Rice & Noodles": {
			{Name: "Fried Rice", Price: 9.99, ID: "m6"},
		},
		"Kids Menu": {
			{Name: "Kids Nuggets", Price: 6.99, ID: "m7"},
		},
		"Drinks": {
			{Name: "Iced Tea", Price: 2.49, ID: "m8"},
		},
		"Extra Sauces": {
			{Name: "Sweet and Sour Sauce", Price: 0.99, ID: "m9"},
		},
	}
}

func TestCategoriesPartition(t *testing.T) {
	catalog := testCatalog()
	main, addons := Categories(catalog)

	assert.ElementsMatch(t, []string{"Chef's Specials", "Chicken", "Soups", "Rice & Noodles", "Kids Menu"}, main)
	assert.ElementsMatch(t, []string{"Drinks", "Extra Sauces"}, addons)
	assert.Equal(t, len(catalog), len(main)+len(addons), "every category lands in exactly one partition")

	// Deterministic for the same input
	main2, addons2 := Categories(catalog)
	assert.Equal(t, main, main2)
	assert.Equal(t, addons, addons2)
}

func TestSummarizeCategories(t *testing.T) {
	summary := SummarizeCategories(testCatalog())

	assert.Contains(t, summary, "Chef's Specials")
	assert.Contains(t, summary, "(plus 1 more)")
	assert.Contains(t, summary, "sides, drinks, and extras")
}

func TestSummarizeCategoriesEmpty(t *testing.T) {
	assert.Equal(t, "No menu categories available.", SummarizeCategories(Catalog{}))
}

func TestSummarizeCategoriesNoAddons(t *testing.T) {
	summary := SummarizeCategories(Catalog{
		"Chicken": {{Name: "Sesame Chicken", Price: 11.49}},
		"Beef":    {{Name: "Mongolian Beef", Price: 13.99}},
	})

	assert.NotContains(t, summary, "plus")
	assert.NotContains(t, summary, "Also available")
}

func TestLookupCategory(t *testing.T) {
	names, ok := LookupCategory(testCatalog(), "chicken")
	require.True(t, ok)
	assert.Equal(t, []string{"Kung Pao Chicken", "Sesame Chicken"}, names)

	_, ok = LookupCategory(testCatalog(), "Desserts")
	assert.False(t, ok)
}

func TestLookupPriceCaseInsensitive(t *testing.T) {
	price, ok := LookupPrice(testCatalog(), "orange chicken")
	require.True(t, ok)
	assert.Equal(t, 12.99, price)

	price, ok = LookupPrice(testCatalog(), "  ORANGE CHICKEN  ")
	require.True(t, ok)
	assert.Equal(t, 12.99, price)

	_, ok = LookupPrice(testCatalog(), "pizza")
	assert.False(t, ok)
}

func TestSearchItemsExactMatch(t *testing.T) {
	results := SearchItems(testCatalog(), []string{"orange chicken"})
	require.Len(t, results, 1)

	require.True(t, results[0].Resolved())
	assert.GreaterOrEqual(t, results[0].Score, 0.8)
	assert.Equal(t, "Orange Chicken", results[0].Match.Name)
	assert.Equal(t, 12.99, results[0].Match.Price)
}

func TestSearchItemsNearMissSuggests(t *testing.T) {
	results := SearchItems(testCatalog(), []string{"chikn"})
	require.Len(t, results, 1)

	assert.False(t, results[0].Resolved(), "near miss must not auto-resolve")
	require.NotEmpty(t, results[0].Suggestions)
	assert.LessOrEqual(t, len(results[0].Suggestions), 3)

	var names []string
	for _, item := range results[0].Suggestions {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, "Orange Chicken")
}

func TestSearchItemsSubstringBonus(t *testing.T) {
	results := SearchItems(testCatalog(), []string{"sesame"})
	require.Len(t, results, 1)

	// "sesame" is one of two words (0.5) plus the substring bonus (0.5)
	require.True(t, results[0].Resolved())
	assert.Equal(t, "Sesame Chicken", results[0].Match.Name)
}

func TestSearchItemsUnknown(t *testing.T) {
	results := SearchItems(Catalog{}, []string{"anything"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Resolved())
	assert.Empty(t, results[0].Suggestions)
}

func TestBuildOrder(t *testing.T) {
	lines, total, matched, missing := BuildOrder(testCatalog(), []string{"orange chicken", "fried rice", "pizza"})

	require.Len(t, lines, 2)
	assert.Equal(t, "Orange Chicken", lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "m1", lines[0].ID)
	assert.Equal(t, 22.98, total)
	assert.Equal(t, []string{"Orange Chicken", "Fried Rice"}, matched)
	assert.Equal(t, []string{"pizza"}, missing)
}

func TestBuildOrderRounding(t *testing.T) {
	catalog := Catalog{
		"Menu": {
			{Name: "A", Price: 0.10, ID: "a"},
			{Name: "B", Price: 0.20, ID: "b"},
		},
	}
	_, total, _, _ := BuildOrder(catalog, []string{"A", "B"})
	assert.Equal(t, 0.30, total)
}
