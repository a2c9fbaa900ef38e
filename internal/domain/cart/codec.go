package cart

import (
	"bytes"
	"encoding/json"
)

// Serialize encodes items as the JSON array stored under the cart key.
func Serialize(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// Parse decodes a stored cart. Entries with quantity below 1 or a negative
// price are dropped, repeated ids are merged into the first occurrence and
// quantities saturate at MaxLineQuantity.
func Parse(blob []byte) ([]LineItem, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return []LineItem{}, nil
	}

	var decoded []LineItem
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(decoded))
	index := make(map[ItemID]int, len(decoded))
	for _, item := range decoded {
		if item.Quantity < 1 || item.Price < 0 {
			continue
		}
		item.Quantity = clampQuantity(item.Quantity)
		if i, ok := index[item.ID]; ok {
			items[i].Quantity = addQuantity(items[i].Quantity, item.Quantity)
			continue
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	return items, nil
}
