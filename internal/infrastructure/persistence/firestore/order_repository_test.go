package firestore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/domain/order"
)

func TestOrderDocRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	items := []cart.LineItem{{
		CatalogItem: cart.CatalogItem{
			ID: "7", Title: "Jacket", Price: cart.FromMajor(1999),
			Attributes: map[string]json.RawMessage{"sizes": json.RawMessage(`["S","M"]`)},
		},
		Quantity: 1,
	}}
	o, err := order.NewOrder("ORD-7", "uid-1",
		cart.Snapshot{Items: items, Totals: cart.DefaultPricing().Calculate(items)},
		order.Billing{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Address: "12 MG Road", City: "Pune"},
		"cod", now)
	require.NoError(t, err)

	doc, err := toOrderDoc(o)
	require.NoError(t, err)
	assert.Equal(t, "Placed", doc.Status)
	assert.Equal(t, int64(o.Total), doc.Total)

	got, err := fromOrderDoc("ORD-7", doc)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Billing, got.Billing)
	assert.Equal(t, o.Total, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, cart.ItemID("7"), got.Items[0].ID)
	assert.JSONEq(t, `["S","M"]`, string(got.Items[0].Attributes["sizes"]))
}

func TestReturnDocRoundTrip(t *testing.T) {
	req := &order.ReturnRequest{
		ID: "RET-1", OrderID: "ORD-7", UserID: "uid-1", Items: []string{"Jacket"},
		Action: order.ActionReplace, Reason: "zip broken", Status: order.ReturnStatusRequested,
		CreatedAt: time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
	}

	got := fromReturnDoc("RET-1", toReturnDoc(req))
	assert.Equal(t, req, got)
}

func TestStatusUpdatesTouchOnlyMutableFields(t *testing.T) {
	o := &order.Order{ID: "ORD-1", Status: order.StatusCancelled, CancelReason: "late"}

	paths := []string{}
	for _, u := range statusUpdates(o) {
		paths = append(paths, u.Path)
	}
	assert.ElementsMatch(t, []string{"status", "cancelReason", "updatedAt"}, paths)
}
