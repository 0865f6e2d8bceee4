package menu

import (
	"sort"
	"strings"
)

// Item is a single orderable menu entry
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	ID    string  `json:"id"`
}

// Catalog maps category names to their items. Category and item names are
// looked up case-insensitively; an item belongs to exactly one category as
// returned by the backend. A failed fetch yields an empty catalog, never a
// partially merged one.
type Catalog map[string][]Item

// Empty reports whether the catalog has no categories
func (c Catalog) Empty() bool {
	return len(c) == 0
}

// CategoryNames returns all category names in sorted order
func (c Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ItemsIn returns the items of the named category using a case-insensitive
// exact match on the category name. The second result reports whether the
// category exists.
func (c Catalog) ItemsIn(category string) ([]Item, bool) {
	want := strings.ToLower(strings.TrimSpace(category))
	for name, items := range c {
		if strings.ToLower(name) == want {
			return items, true
		}
	}
	return nil, false
}

// Find locates an item by case-insensitive exact name match across all
// categories
func (c Catalog) Find(itemName string) (Item, bool) {
	want := strings.ToLower(strings.TrimSpace(itemName))
	for _, items := range c {
		for _, item := range items {
			if strings.ToLower(item.Name) == want {
				return item, true
			}
		}
	}
	return Item{}, false
}

// AllItems returns every item in the catalog, ordered by sorted category name
func (c Catalog) AllItems() []Item {
	var all []Item
	for _, name := range c.CategoryNames() {
		all = append(all, c[name]...)
	}
	return all
}
