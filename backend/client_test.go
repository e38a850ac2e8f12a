package backend_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/routai/routai"
	"github.com/routai/routai/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		fmt.Fprint(w, `{"session_id":"sess-42","message":"Session created successfully"}`)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	id, err := client.CreateSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess-42", id)
}

func TestCreateSession_MissingID(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.CreateSession(context.Background())

	assert.Error(t, err)
}

func TestStream_RequestBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chats/stream", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "plan a ride", req["message"])
		assert.Equal(t, "sess-42", req["session_id"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintln(w, completeLine())
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), "plan a ride", "sess-42")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	collectEvents(t, s)
}

func TestStream_LegacyPaths(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/sessions":
			fmt.Fprint(w, `{"session_id":"legacy-1"}`)
		case "/chat/stream":
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprintln(w, completeLine())
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL), backend.WithLegacyPaths())

	id, err := client.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "legacy-1", id)

	s, err := client.Stream(context.Background(), "hi", id)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	collectEvents(t, s)
}

func TestStream_HTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Session nope not found"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), "hi", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSegments(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/sess-42/segments", r.URL.Path)
		fmt.Fprint(w, `[
			{"day":1,"route":{"polyline":"_p~iF~ps|U","origin":{"name":"London","coordinates":{"latitude":51.5074,"longitude":-0.1278}},"destination":{"name":"Cambridge","coordinates":{"latitude":52.2053,"longitude":0.1218}},"distance":98000,"elevation_gain":420},"accommodation_options":[{"name":"The Green Inn","address":"1 Mill Rd","map_link":"https://maps.example/green-inn","rating":4.4}]},
			{"day":2,"route":{"polyline":"mock_polyline_data","origin":{"name":"Cambridge","coordinates":{"latitude":52.2053,"longitude":0.1218}},"destination":{"name":"Peterborough","coordinates":{"latitude":52.5736,"longitude":-0.2478}},"distance":61000,"elevation_gain":250},"accommodation_options":[]}
		]`)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	segments, err := client.Segments(context.Background(), "sess-42")

	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, 1, segments[0].Day)
	assert.Equal(t, "London", segments[0].Route.Origin.Name)
	assert.InDelta(t, 98.0, segments[0].Route.DistanceKM(), 1e-9)
	require.Len(t, segments[0].AccommodationOptions, 1)
	assert.Equal(t, "The Green Inn", segments[0].AccommodationOptions[0].Name)
	assert.Equal(t, "mock_polyline_data", segments[1].Route.Polyline)
	assert.Empty(t, segments[1].AccommodationOptions)
}

func TestRoute(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/sess-42/route", r.URL.Path)
		fmt.Fprint(w, `{"polyline":"_p~iF~ps|U","origin":{"name":"London","coordinates":{"latitude":51.5074,"longitude":-0.1278}},"destination":{"name":"Leeds","coordinates":{"latitude":53.8008,"longitude":-1.5491}},"distance":310500,"elevation_gain":2100}`)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	route, err := client.Route(context.Background(), "sess-42")

	require.NoError(t, err)
	assert.Equal(t, "Leeds", route.Destination.Name)
	assert.Equal(t, 310500, route.Distance)
	assert.Equal(t, 2100, route.ElevationGain)
}

func TestSegments_HTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.Segments(context.Background(), "sess-42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

// Interface compliance is part of the package contract.
var _ routai.Backend = (*backend.Client)(nil)
