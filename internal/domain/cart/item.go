package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ItemID accepts a JSON number or string and always encodes as a string, so
// catalog ids 7 and "7" name the same item.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid item id %s: %w", data, err)
		}
		*id = ItemID(n.String())
	}
	return nil
}

const (
	fieldID       = "id"
	fieldTitle    = "title"
	fieldPrice    = "price"
	fieldCategory = "category"
	fieldQuantity = "quantity"
)

// CatalogItem is a purchasable product. Attributes holds everything the cart
// does not interpret (images, sizes, reviews, ...) and is carried verbatim.
type CatalogItem struct {
	ID         ItemID
	Title      string
	Price      Money
	Category   string
	Attributes map[string]json.RawMessage
}

// Clone returns a copy that shares no memory with c.
func (c CatalogItem) Clone() CatalogItem {
	out := c
	if c.Attributes != nil {
		out.Attributes = make(map[string]json.RawMessage, len(c.Attributes))
		for k, v := range c.Attributes {
			out.Attributes[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func (c CatalogItem) MarshalJSON() ([]byte, error) {
	fields, err := c.fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (c *CatalogItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return c.fromFields(fields)
}

func (c CatalogItem) fields() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage, len(c.Attributes)+4)
	for k, v := range c.Attributes {
		fields[k] = v
	}

	known := map[string]interface{}{
		fieldID:    string(c.ID),
		fieldTitle: c.Title,
		fieldPrice: c.Price,
	}
	if c.Category != "" {
		known[fieldCategory] = c.Category
	}
	for k, v := range known {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		fields[k] = raw
	}
	return fields, nil
}

func (c *CatalogItem) fromFields(fields map[string]json.RawMessage) error {
	*c = CatalogItem{}

	if raw, ok := fields[fieldID]; ok {
		if err := json.Unmarshal(raw, &c.ID); err != nil {
			return err
		}
	}
	if raw, ok := fields[fieldTitle]; ok {
		if err := json.Unmarshal(raw, &c.Title); err != nil {
			return fmt.Errorf("invalid title: %w", err)
		}
	}
	if raw, ok := fields[fieldPrice]; ok {
		if err := json.Unmarshal(raw, &c.Price); err != nil {
			return err
		}
	}
	if raw, ok := fields[fieldCategory]; ok {
		if err := json.Unmarshal(raw, &c.Category); err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}
	}

	for k, v := range fields {
		switch k {
		case fieldID, fieldTitle, fieldPrice, fieldCategory, fieldQuantity:
			continue
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]json.RawMessage)
		}
		c.Attributes[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// MaxLineQuantity caps the units of one item a cart line can hold. Adds,
// quantity updates and restored blobs all saturate at this value.
const MaxLineQuantity = 999

// clampQuantity bounds q to [1, MaxLineQuantity].
func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxLineQuantity:
		return MaxLineQuantity
	}
	return q
}

// addQuantity sums two line quantities without exceeding MaxLineQuantity.
func addQuantity(a, b int) int {
	if b >= MaxLineQuantity-a {
		return MaxLineQuantity
	}
	return a + b
}

// LineItem is a catalog item copied into the cart plus a quantity in
// [1, MaxLineQuantity].
type LineItem struct {
	CatalogItem
	Quantity int
}

func (l LineItem) LineTotal() Money {
	return l.Price.Mul(l.Quantity)
}

func (l LineItem) Clone() LineItem {
	return LineItem{CatalogItem: l.CatalogItem.Clone(), Quantity: l.Quantity}
}

func (l LineItem) MarshalJSON() ([]byte, error) {
	fields, err := l.CatalogItem.fields()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(l.Quantity)
	if err != nil {
		return nil, err
	}
	fields[fieldQuantity] = raw
	return json.Marshal(fields)
}

func (l *LineItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*l = LineItem{}
	if err := l.CatalogItem.fromFields(fields); err != nil {
		return err
	}
	if raw, ok := fields[fieldQuantity]; ok {
		if err := json.Unmarshal(raw, &l.Quantity); err != nil {
			return fmt.Errorf("invalid quantity: %w", err)
		}
	}
	return nil
}
