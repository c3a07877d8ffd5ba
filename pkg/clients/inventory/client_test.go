package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invmis/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*config.InventoryConfig)) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.InventoryConfig{
		BaseURL:   srv.URL + "/",
		StockPath: "api/inventory/stock-quantities",
		Timeout:   5 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestListStock_BareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inventory/stock-quantities", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "sid=abc", r.Header.Get("Cookie"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"1","item_code":"IT-1","item_name":"Toner","unit":"pcs","current_quantity":0,"minimum_stock_level":5,"reorder_point":8,"maximum_stock_level":0},
			{"id":"2","item_code":"IT-2","item_name":"Paper","unit":"reams","current_quantity":40,"minimum_stock_level":null}
		]`))
	}, func(cfg *config.InventoryConfig) {
		cfg.Token = "secret"
		cfg.SessionCookie = "sid=abc"
	})

	items, err := client.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "IT-1", items[0].ItemCode)
	assert.Equal(t, 8, items[0].Record().ReorderPoint)
	assert.Nil(t, items[1].MinimumStockLevel)
	assert.Equal(t, 40, items[1].Record().CurrentQuantity)
}

func TestListStock_Envelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"inventory":[{"item_code":"IT-9","nomenclature":"Stapler","current_quantity":3,"unit":"pcs"}]}`))
	}, nil)

	items, err := client.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Stapler", items[0].Name())
}

func TestListStock_EnvelopeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to fetch stock breakdown"}`))
	}, nil)

	_, err := client.ListStock(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "Failed to fetch stock breakdown")
}

func TestListStock_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch stock quantities","details":"timeout"}`))
	}, nil)

	_, err := client.ListStock(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "status=500")
	assert.Contains(t, err.Error(), "Failed to fetch stock quantities: timeout")
}

func TestListStock_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"current_quantity":"lots"}]`))
	}, nil)

	_, err := client.ListStock(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpstream)
}
