package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price Money, qty int) LineItem {
	return LineItem{CatalogItem: CatalogItem{ID: ItemID(price.String()), Price: price}, Quantity: qty}
}

func TestCalculate(t *testing.T) {
	p := DefaultPricing()

	tests := []struct {
		name         string
		items        []LineItem
		subtotal     Money
		tax          Money
		shipping     Money
		total        Money
		progress     float64
		toFreeShipng Money
	}{
		{
			name:         "empty cart",
			subtotal:     0,
			tax:          0,
			shipping:     0,
			total:        0,
			progress:     0,
			toFreeShipng: FromMajor(2000),
		},
		{
			name:         "below threshold",
			items:        []LineItem{line(FromMajor(500), 1)},
			subtotal:     FromMajor(500),
			tax:          FromMajor(90),
			shipping:     FromMajor(100),
			total:        FromMajor(690),
			progress:     25,
			toFreeShipng: FromMajor(1500),
		},
		{
			name:         "exactly at threshold",
			items:        []LineItem{line(FromMajor(500), 4)},
			subtotal:     FromMajor(2000),
			tax:          FromMajor(360),
			shipping:     0,
			total:        FromMajor(2360),
			progress:     100,
			toFreeShipng: 0,
		},
		{
			name:         "above threshold caps progress",
			items:        []LineItem{line(FromMajor(1500), 2), line(FromMajor(250), 1)},
			subtotal:     FromMajor(3250),
			tax:          FromMajor(585),
			shipping:     0,
			total:        FromMajor(3835),
			progress:     100,
			toFreeShipng: 0,
		},
		{
			name:         "tax rounds to the minor unit",
			items:        []LineItem{line(Money(1999), 1)},
			subtotal:     Money(1999),
			tax:          Money(360), // 359.82 paise
			shipping:     FromMajor(100),
			total:        Money(1999 + 360 + 10000),
			progress:     float64(1999) / float64(200000) * 100,
			toFreeShipng: Money(200000 - 1999),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Calculate(tt.items)
			assert.Equal(t, tt.subtotal, got.Subtotal)
			assert.Equal(t, tt.tax, got.Tax)
			assert.Equal(t, tt.shipping, got.ShippingFee)
			assert.Equal(t, tt.total, got.Total)
			assert.InDelta(t, tt.progress, got.ShippingProgressPercent, 1e-9)
			assert.Equal(t, tt.toFreeShipng, got.AmountToFreeShipping)
		})
	}
}

func TestCalculateZeroThreshold(t *testing.T) {
	p := Pricing{TaxRate: 0.1, FreeShippingThreshold: 0, ShippingFee: FromMajor(50)}

	got := p.Calculate([]LineItem{line(FromMajor(10), 1)})
	assert.Equal(t, Money(0), got.ShippingFee)
	assert.InDelta(t, 100.0, got.ShippingProgressPercent, 1e-9)
}

func TestTotalsJSON(t *testing.T) {
	got := DefaultPricing().Calculate([]LineItem{line(FromMajor(500), 1)})

	blob, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"subtotal": 500,
		"tax": 90,
		"shipping_fee": 100,
		"total": 690,
		"shipping_progress_percent": 25,
		"free_shipping_threshold": 2000,
		"amount_to_free_shipping": 1500
	}`, string(blob))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, Money(50000), FromMajor(500))
	assert.Equal(t, Money(1999), FromMajor(19.99))
	assert.Equal(t, "500", FromMajor(500).String())
	assert.Equal(t, "19.99", Money(1999).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-3.10", Money(-310).String())
	assert.InDelta(t, 19.99, Money(1999).Major(), 1e-9)

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &m))
	assert.Equal(t, Money(1250), m)
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, Money(0), m)
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &m))
	assert.Error(t, json.Unmarshal([]byte(`1e300`), &m))
	assert.Error(t, json.Unmarshal([]byte(`-92233720368547758`), &m))
	require.NoError(t, json.Unmarshal([]byte(`10000000000000`), &m))
	assert.Equal(t, FromMajor(1e13), m)
}
