package menu

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// addonKeywords classify a category as an add-on rather than a main dish
// section. Matched as case-insensitive substrings of the category name.
var addonKeywords = []string{"add-on", "side", "extra", "sauce", "drink", "beverage"}

// autoAcceptScore is the minimum fuzzy-match score at which a single item is
// accepted without asking the caller to confirm. Below it the caller gets
// ranked suggestions instead. Tuned for voice-transcription noise: near-miss
// item names should suggest, not silently mis-order.
const autoAcceptScore = 0.8

// maxSuggestions bounds how many alternatives are read back to the caller
const maxSuggestions = 3

// Categories partitions the catalog's category names into main dish
// categories and add-on categories. Both lists are sorted; every category
// lands in exactly one list.
func Categories(c Catalog) (main, addons []string) {
	for _, category := range c.CategoryNames() {
		lower := strings.ToLower(category)
		isAddon := false
		for _, kw := range addonKeywords {
			if strings.Contains(lower, kw) {
				isAddon = true
				break
			}
		}
		if isAddon {
			addons = append(addons, category)
		} else {
			main = append(main, category)
		}
	}
	return main, addons
}

// SummarizeCategories builds the short spoken overview of the menu: at most
// four featured main categories, a count of the rest, and a generic add-on
// mention when add-on categories exist.
func SummarizeCategories(c Catalog) string {
	main, addons := Categories(c)
	if len(main) == 0 {
		return "No menu categories available."
	}

	featured := main
	if len(featured) > 4 {
		featured = featured[:4]
	}

	summary := fmt.Sprintf("Main categories: %s", strings.Join(featured, ", "))
	if remaining := len(main) - 4; remaining > 0 {
		summary += fmt.Sprintf(" (plus %d more)", remaining)
	}
	if len(addons) > 0 {
		summary += ". Also available: sides, drinks, and extras."
	}
	return summary
}

// LookupCategory returns the item names of a category, matched
// case-insensitively. The boolean reports whether the category exists.
func LookupCategory(c Catalog, category string) ([]string, bool) {
	items, ok := c.ItemsIn(category)
	if !ok {
		return nil, false
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names, true
}

// LookupPrice returns the price of an item by case-insensitive exact name
// match across all categories. The boolean reports whether the item exists.
func LookupPrice(c Catalog, itemName string) (float64, bool) {
	item, ok := c.Find(itemName)
	if !ok {
		return 0, false
	}
	return item.Price, true
}

// MatchResult is the outcome of resolving one caller-spoken item name
type MatchResult struct {
	Query       string
	Match       *Item   // set when the match was confident enough to auto-accept
	Score       float64 // score of Match, 0 when no match
	Suggestions []Item  // ranked alternatives needing caller confirmation
}

// Resolved reports whether the query was auto-resolved to a single item
func (r MatchResult) Resolved() bool {
	return r.Match != nil
}

type scoredItem struct {
	item  Item
	score float64
}

// SearchItems resolves caller-spoken item names against the catalog. Each
// query first tries a case-insensitive exact match; otherwise every item is
// scored by word-overlap ratio plus a substring bonus. The best item is
// auto-accepted at or above autoAcceptScore, otherwise up to three ranked
// suggestions are returned for disambiguation.
func SearchItems(c Catalog, queries []string) []MatchResult {
	results := make([]MatchResult, 0, len(queries))
	for _, query := range queries {
		results = append(results, searchOne(c, query))
	}
	return results
}

func searchOne(c Catalog, query string) MatchResult {
	result := MatchResult{Query: query}

	if item, ok := c.Find(query); ok {
		result.Match = &item
		result.Score = 1.0
		return result
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryWords := strings.Fields(queryLower)
	if len(queryWords) == 0 {
		return result
	}

	var scored []scoredItem
	for _, item := range c.AllItems() {
		nameLower := strings.ToLower(item.Name)
		nameWords := strings.Fields(nameLower)

		// Word-overlap ratio, where each query word contributes its best
		// similarity against the item's words. Exact words count 1.0;
		// transcription near-misses ("chikn" for "chicken") contribute
		// partial credit so they still surface as suggestions.
		var overlap float64
		for _, qw := range queryWords {
			best := 0.0
			for _, nw := range nameWords {
				if sim := wordSimilarity(qw, nw); sim > best {
					best = sim
				}
			}
			overlap += best
		}

		score := overlap / float64(len(queryWords))
		if strings.Contains(nameLower, queryLower) {
			score += 0.5
		}
		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		return result
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if scored[0].score >= autoAcceptScore {
		item := scored[0].item
		result.Match = &item
		result.Score = scored[0].score
		return result
	}

	for i := 0; i < len(scored) && i < maxSuggestions; i++ {
		result.Suggestions = append(result.Suggestions, scored[i].item)
	}
	return result
}

// wordSimilarity scores two lowercased words in [0, 1]: 1.0 for an exact
// match, length ratio when one contains the other, otherwise the shared
// prefix length over the longer word's length
func wordSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter := len(a) + len(b) - longer
		return float64(shorter) / float64(longer)
	}

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	return float64(prefix) / float64(longer)
}

// OrderLine is one resolved line of an order
type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	ID       string  `json:"id"`
}

// BuildOrder resolves requested item names against the catalog into order
// lines with a 2-decimal rounded total. Unresolvable names are returned in
// missing; the caller decides how to surface them.
func BuildOrder(c Catalog, itemNames []string) (lines []OrderLine, total float64, matched, missing []string) {
	for _, name := range itemNames {
		item, ok := c.Find(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		lines = append(lines, OrderLine{
			Name:     item.Name,
			Quantity: 1,
			Price:    item.Price,
			ID:       item.ID,
		})
		total += item.Price
		matched = append(matched, item.Name)
	}
	total = math.Round(total*100) / 100
	return lines, total, matched, missing
}
