package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(srv.URL, "agent@example.com", "secret")
	client.HTTP = srv.Client()
	return srv, client
}

func loginOK(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path == "/api/auth/login" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func TestLoginFailureLatches(t *testing.T) {
	var requests int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	ctx := context.Background()
	require.ErrorIs(t, client.Login(ctx), ErrUnavailable)

	// Every later operation short-circuits without touching the network
	_, err := client.GetMenu(ctx, "s1")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = client.ResolveStoreByPhone(ctx, "+15551234567")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, client.SubmitOrder(ctx, OrderRequest{}), ErrUnavailable)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestGetMenuGroupsByCategory(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		require.Equal(t, "/api/menu/s1", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name":"Orange Chicken","category":"Chicken","basePrice":12.99,"id":"m1"},
			{"name":"Sesame Chicken","category":"Chicken","basePrice":11.49,"id":"m2"},
			{"name":"Iced Tea","category":"","basePrice":2.49,"id":"m3"}
		]`))
	})

	catalog, err := client.GetMenu(context.Background(), "s1")
	require.NoError(t, err)

	items, ok := catalog.ItemsIn("chicken")
	require.True(t, ok)
	assert.Len(t, items, 2)

	// Items without a category land in "Other"
	other, ok := catalog.ItemsIn("Other")
	require.True(t, ok)
	assert.Equal(t, "Iced Tea", other[0].Name)
}

func TestGetMenuFailureYieldsEmptyCatalog(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	catalog, err := client.GetMenu(context.Background(), "s1")
	assert.Error(t, err)
	assert.True(t, catalog.Empty(), "a failed fetch yields an empty catalog, never a partial one")
}

func TestResolveStoreByPhoneLegacyID(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		require.Equal(t, "/api/stores/by-phone/+15551234567", r.URL.Path)
		_, _ = w.Write([]byte(`{"_id":"legacy42"}`))
	})

	id, err := client.ResolveStoreByPhone(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "legacy42", id)
}

func TestFetchStoreInfo(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		switch r.URL.Path {
		case "/api/stores/by-phone/+15551234567":
			_, _ = w.Write([]byte(`{"id":"s1"}`))
		case "/api/stores/s1":
			_, _ = w.Write([]byte(`{"id":"s1","name":"Golden Dragon","notificationPhone":"+15550001111","transferPhone":"+15550002222"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	store, err := client.FetchStoreInfo(context.Background(), "+15551234567")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, "Golden Dragon", store.Name)
	assert.Equal(t, "+15550002222", store.TransferPhone)
}

func TestFetchStoreInfoNoStore(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	store, err := client.FetchStoreInfo(context.Background(), "+15551234567")
	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestSubmitOrder(t *testing.T) {
	var got OrderRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		require.Equal(t, "/api/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SubmitOrder(context.Background(), OrderRequest{
		StoreID:      "s1",
		CustomerName: "Sam",
		Total:        "12.99",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.CustomerName)
	assert.Equal(t, "12.99", got.Total)
}

func TestSubmitOrderFailure(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	})

	assert.Error(t, client.SubmitOrder(context.Background(), OrderRequest{StoreID: "s1"}))
}

func TestSaveConversation(t *testing.T) {
	var payload map[string]interface{}
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if loginOK(w, r) {
			return
		}
		require.Equal(t, "/api/conversations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SaveConversation(context.Background(), ConversationRecord{
		StoreID:       "s1",
		CustomerPhone: "+15551234567",
		Transcript: TranscriptPayload{Messages: []TranscriptMessage{
			{Role: "customer", Content: "hi", Timestamp: "2026-09-01T12:00:00Z"},
		}},
		Duration: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", payload["callStatus"])
	transcript := payload["transcript"].(map[string]interface{})
	assert.Len(t, transcript["messages"], 1)
}
