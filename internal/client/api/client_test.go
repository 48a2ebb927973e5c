package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AddToCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["userId"])
		assert.Equal(t, "p-1", body["productId"])
		assert.Equal(t, float64(2), body["quantity"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Product added to cart","cart":{"id":"c-1","userId":"u-1","items":[{"productId":"p-1","quantity":2,"product":null}]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")
	cart, err := c.AddToCart(context.Background(), "u-1", "p-1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].Quantity)
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Cart not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetCart(context.Background(), "u-1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Cart not found", ae.Message)
}
