package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
)

func fixture() *Catalog {
	return New([]cart.CatalogItem{
		{ID: "1", Title: "Linen Shirt", Price: cart.FromMajor(1299), Category: "Men"},
		{ID: "2", Title: "Silk Dress", Price: cart.FromMajor(2499), Category: "Women"},
		{ID: "3", Title: "Oxford Shirt", Price: cart.FromMajor(999), Category: "Men"},
		{ID: "4", Title: "Canvas Tote", Price: cart.FromMajor(399), Category: "Accessories"},
		{ID: "1", Title: "Duplicate", Price: cart.FromMajor(1), Category: "Men"},
	})
}

func ids(items []cart.CatalogItem) []cart.ItemID {
	out := make([]cart.ItemID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestNewIgnoresDuplicateIDs(t *testing.T) {
	c := fixture()
	assert.Equal(t, 4, c.Len())

	item, ok := c.ByID("1")
	require.True(t, ok)
	assert.Equal(t, "Linen Shirt", item.Title)

	_, ok = c.ByID("99")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	c := fixture()

	assert.Equal(t, []cart.ItemID{"1", "3"}, ids(c.ByCategory("Men")))
	assert.Equal(t, []cart.ItemID{"1", "2", "3", "4"}, ids(c.Filter(AllCategories, "")))
	assert.Equal(t, []cart.ItemID{"1", "3"}, ids(c.Search("SHIRT")))
	assert.Equal(t, []cart.ItemID{"3"}, ids(c.Filter("Men", "oxford")))
	assert.Empty(t, c.Filter("Women", "shirt"))
	assert.Empty(t, c.ByCategory("men"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Men", "Women", "Accessories"}, fixture().Categories())
}

func TestRelated(t *testing.T) {
	c := fixture()

	assert.Equal(t, []cart.ItemID{"3", "2"}, ids(c.Related("1", 2)))
	assert.Equal(t, []cart.ItemID{"3", "2", "4"}, ids(c.Related("1", 10)))
	assert.Empty(t, c.Related("1", 0))
	assert.Empty(t, c.Related("missing", 3))
}

func TestLookupsReturnCopies(t *testing.T) {
	c := New([]cart.CatalogItem{{
		ID:         "1",
		Title:      "Tee",
		Attributes: map[string]json.RawMessage{"sizes": json.RawMessage(`["S"]`)},
	}})

	item, _ := c.ByID("1")
	item.Attributes["sizes"] = json.RawMessage(`["XL"]`)

	again, _ := c.ByID("1")
	assert.JSONEq(t, `["S"]`, string(again.Attributes["sizes"]))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 1, "title": "Tee", "price": 500, "category": "Men", "images": ["/tee.jpg"]},
		{"id": "2", "title": "Cap", "price": 249.99}
	]`), 0o600))

	items, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, cart.ItemID("1"), items[0].ID)
	assert.Equal(t, cart.Money(24999), items[1].Price)
	assert.Contains(t, items[0].Attributes, "images")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	noID := filepath.Join(dir, "noid.json")
	require.NoError(t, os.WriteFile(noID, []byte(`[{"title": "Tee", "price": 5}]`), 0o600))
	_, err = LoadFile(noID)
	assert.Error(t, err)

	for name, price := range map[string]string{
		"negative":  "-1",
		"too large": "10000000.01",
		"overflow":  "1e300",
	} {
		path := filepath.Join(dir, "price.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": "1", "title": "Tee", "price": `+price+`}]`), 0o600))
		_, err = LoadFile(path)
		assert.Error(t, err, name)
	}

	edge := filepath.Join(dir, "edge.json")
	require.NoError(t, os.WriteFile(edge, []byte(`[{"id": "1", "title": "Tee", "price": 10000000}]`), 0o600))
	items, err := LoadFile(edge)
	require.NoError(t, err)
	assert.Equal(t, MaxPrice, items[0].Price)
}
