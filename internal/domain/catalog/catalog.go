package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
)

// AllCategories is the shop filter value that disables category filtering.
const AllCategories = "Shop All"

// MaxPrice is the highest product price a catalog file may list.
const MaxPrice = cart.Money(10_000_000 * 100)

// Catalog is a read-only, ordered product list loaded once at startup.
type Catalog struct {
	items []cart.CatalogItem
	byID  map[cart.ItemID]int
}

// New builds a catalog from items. Later duplicates of an id are ignored.
func New(items []cart.CatalogItem) *Catalog {
	c := &Catalog{
		items: make([]cart.CatalogItem, 0, len(items)),
		byID:  make(map[cart.ItemID]int, len(items)),
	}
	for _, item := range items {
		if _, ok := c.byID[item.ID]; ok {
			continue
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item.Clone())
	}
	return c
}

// LoadFile reads a JSON array of products (the seed file format).
func LoadFile(path string) ([]cart.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var items []cart.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog %s: product at index %d has no id", path, i)
		}
		if item.Price < 0 || item.Price > MaxPrice {
			return nil, fmt.Errorf("catalog %s: product %s has price %s outside [0, %s]", path, item.ID, item.Price, MaxPrice)
		}
	}
	return items, nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}

func (c *Catalog) All() []cart.CatalogItem {
	return c.collect(func(cart.CatalogItem) bool { return true })
}

func (c *Catalog) ByID(id cart.ItemID) (cart.CatalogItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return cart.CatalogItem{}, false
	}
	return c.items[i].Clone(), true
}

func (c *Catalog) ByCategory(category string) []cart.CatalogItem {
	return c.collect(func(item cart.CatalogItem) bool {
		return item.Category == category
	})
}

// Search matches term against titles, ignoring case. An empty term matches all.
func (c *Catalog) Search(term string) []cart.CatalogItem {
	return c.Filter("", term)
}

// Filter combines the category and title filters of the shop page. An empty
// category or AllCategories matches every category.
func (c *Catalog) Filter(category, term string) []cart.CatalogItem {
	term = strings.ToLower(strings.TrimSpace(term))
	anyCategory := category == "" || category == AllCategories

	return c.collect(func(item cart.CatalogItem) bool {
		if !anyCategory && item.Category != category {
			return false
		}
		return term == "" || strings.Contains(strings.ToLower(item.Title), term)
	})
}

// Categories lists distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range c.items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

// Related returns up to n other products, same category first.
func (c *Catalog) Related(id cart.ItemID, n int) []cart.CatalogItem {
	if n <= 0 {
		return []cart.CatalogItem{}
	}
	self, ok := c.ByID(id)
	if !ok {
		return []cart.CatalogItem{}
	}

	out := make([]cart.CatalogItem, 0, n)
	for _, sameCategory := range []bool{true, false} {
		for _, item := range c.items {
			if len(out) == n {
				return out
			}
			if item.ID == id || (item.Category == self.Category) != sameCategory {
				continue
			}
			out = append(out, item.Clone())
		}
	}
	return out
}

func (c *Catalog) collect(keep func(cart.CatalogItem) bool) []cart.CatalogItem {
	out := []cart.CatalogItem{}
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}
