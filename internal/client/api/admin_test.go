package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ykaradag/ustahub/internal/models"
)

func TestAdminCreateUsta(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody UstaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"u-1","name":"Elektrikci"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeStore{tok: "admin-tok"}, zap.NewNop())
	usta, err := c.AdminCreateUsta(context.Background(), UstaRequest{Name: "Elektrikci"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/admin/ustalar", gotPath)
	assert.Equal(t, "Elektrikci", gotBody.Name)
	assert.Equal(t, "u-1", usta.ID)
}

func TestAdminCreateSoru(t *testing.T) {
	var gotPath string
	var gotBody SoruRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"s-1","question":"Kac oda?","type":"select","options":["1","2"],"order":3}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeStore{tok: "admin-tok"}, zap.NewNop())
	soru, err := c.AdminCreateSoru(context.Background(), SoruRequest{
		UstaID:   "u-1",
		Question: "Kac oda?",
		Type:     "select",
		Options:  []string{"1", "2"},
		Order:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "/admin/sorular", gotPath)
	assert.Equal(t, "u-1", gotBody.UstaID)
	assert.Equal(t, []string{"1", "2"}, gotBody.Options)
	assert.Equal(t, 3, gotBody.Order)
	assert.Equal(t, "s-1", soru.ID)
	assert.Equal(t, []string{"1", "2"}, soru.Options)
}

func TestAdminUpdateOffer(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody struct {
		Price float64 `json:"price"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"o-1","price":1250.5,"details":"materials included"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeStore{tok: "admin-tok"}, zap.NewNop())
	offer, err := c.AdminUpdateOffer(context.Background(), "o-1", 1250.5)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/admin/offers/o-1", gotPath)
	assert.Equal(t, 1250.5, gotBody.Price)
	assert.Equal(t, 1250.5, offer.Price)
}

func TestAdminDeleteHizmet(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeStore{tok: "admin-tok"}, zap.NewNop())
	err := c.AdminDeleteHizmet(context.Background(), "h-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/admin/hizmetler/h-1", gotPath)
}

func TestAdminCreatePortfolioItem(t *testing.T) {
	var gotPath string
	var gotBody PortfolioItemRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"p-1","title":"Kitchen rewiring","mediaType":"VIDEO","isActive":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeStore{tok: "admin-tok"}, zap.NewNop())
	item, err := c.AdminCreatePortfolioItem(context.Background(), "u-1", PortfolioItemRequest{
		Title:     "Kitchen rewiring",
		MediaURL:  "https://cdn.example.com/v1.mp4",
		MediaType: models.MediaVideo,
	})
	require.NoError(t, err)

	assert.Equal(t, "/admin/ustalar/u-1/portfolio", gotPath)
	assert.Equal(t, models.MediaVideo, gotBody.MediaType)
	assert.Equal(t, "p-1", item.ID)
	assert.True(t, item.IsActive)
}
