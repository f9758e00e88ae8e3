package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_SearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Kind of Blue", r.URL.Query().Get("title"))
		assert.Equal(t, "1959", r.URL.Query().Get("year"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"mb-1","title":"Kind of Blue","artist":"Miles Davis","year":1959}]}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "test-key")

	cands, err := p.SearchByTitle(context.Background(), "Kind of Blue", 1959)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "mb-1", cands[0].ExternalID)
	assert.Equal(t, "Miles Davis", cands[0].Artist)
	assert.Equal(t, 1959, cands[0].Year)
}

func TestHTTPProvider_SearchOmitsZeroYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("year"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	cands, err := NewHTTPProvider(server.URL, "").SearchByTitle(context.Background(), "Heat", 0)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestHTTPProvider_GetDetailsByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/records/mb-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"mb-1","title":"Kind of Blue","artist":"Miles Davis","year":1959,
			"tracks":[{"disc":1,"number":1,"title":"So What"}]}`))
	}))
	defer server.Close()

	rec, err := NewHTTPProvider(server.URL, "").GetDetailsByID(context.Background(), "mb-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Kind of Blue", rec.Title)
	require.Len(t, rec.Tracks, 1)
	assert.Equal(t, "So What", rec.Tracks[0].Title)
}

func TestHTTPProvider_DetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	rec, err := NewHTTPProvider(server.URL, "").GetDetailsByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestHTTPProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPProvider(server.URL, "").SearchByTitle(context.Background(), "Heat", 0)
	assert.Error(t, err)
}
