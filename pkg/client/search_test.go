package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchPagination(t *testing.T) {
	var (
		hitCount int
		server   *httptest.Server
	)
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitCount++

		switch hitCount {
		case 1:
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload SearchParams
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []string{"sentinel-2-l2a"}, payload.Collections)
			assert.Equal(t, "cql2-json", payload.FilterLang)
			assert.Equal(t, "and", payload.Filter["op"])

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{
                "type": "FeatureCollection",
                "features": [{"type":"Feature","id":"item-1","properties":{},"geometry":null,"assets":{},"links":[]}],
                "links": [{"rel":"next","href":"%s/search?page=2"}]
            }`, server.URL)
		case 2:
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
                "type": "FeatureCollection",
                "features": [{"type":"Feature","id":"item-2","properties":{},"geometry":null,"assets":{},"links":[]}],
                "links": []
            }`))
		default:
			http.Error(w, "unexpected request", http.StatusTeapot)
		}
	}))
	defer server.Close()

	cli, err := NewClient(server.URL)
	require.NoError(t, err)

	filter := And(
		SIntersects("geometry", map[string]any{"type": "Point", "coordinates": []float64{0, 0}}),
		Gte("datetime", "2024-01-01"),
		Lte("datetime", "2024-02-01"),
	)
	items, err := CollectItems(cli.Search(context.Background(), SearchParams{
		Collections: []string{"sentinel-2-l2a"},
		Filter:      filter,
		Limit:       100,
	}))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "item-1", items[0].Id)
	assert.Equal(t, "item-2", items[1].Id)
	assert.Equal(t, 2, hitCount)
}

func TestClient_SearchEarlyStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "type": "FeatureCollection",
            "features": [
                {"type":"Feature","id":"a","properties":{},"geometry":null,"assets":{},"links":[]},
                {"type":"Feature","id":"b","properties":{},"geometry":null,"assets":{},"links":[]}
            ],
            "links": [{"rel":"next","href":"/search?page=99"}]
        }`))
	}))
	defer server.Close()

	cli, err := NewClient(server.URL)
	require.NoError(t, err)

	var seen []string
	for item, err := range cli.Search(context.Background(), SearchParams{}) {
		require.NoError(t, err)
		seen = append(seen, item.Id)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}

func TestClient_SearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"bad filter"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	cli, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = CollectItems(cli.Search(context.Background(), SearchParams{}))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, apiErr.Temporary())
}

func TestClient_GetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/sentinel-2-l2a/items/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"Feature","id":"abc","properties":{"datetime":"2024-05-01T10:00:00Z"},"geometry":null,"assets":{},"links":[]}`))
	}))
	defer server.Close()

	cli, err := NewClient(server.URL)
	require.NoError(t, err)

	item, err := cli.GetItem(context.Background(), "sentinel-2-l2a", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", item.Id)
	assert.Equal(t, "2024-05-01T10:00:00Z", item.Properties["datetime"])
}

func TestClient_GetItemValidation(t *testing.T) {
	cli, err := NewClient("https://example.com")
	require.NoError(t, err)

	_, err = cli.GetItem(context.Background(), "", "abc")
	require.Error(t, err)
}
