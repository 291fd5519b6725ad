package exercisedb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchJSON = `{
	"exerciseId": "EIeI8Vf",
	"name": "barbell bench press",
	"gifUrl": "https://static.example.com/EIeI8Vf.gif",
	"targetMuscles": ["pectorals"],
	"bodyParts": ["chest"],
	"equipments": ["barbell"],
	"secondaryMuscles": ["triceps", "shoulders"],
	"instructions": ["Step:1 Lie flat on the bench."]
}`

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/exercises/EIeI8Vf", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"success": true, "data": ` + benchJSON + `}`))
	})
	mux.HandleFunc("/exercises/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success": false}`, http.StatusNotFound)
	})
	mux.HandleFunc("/exercises", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("offset"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"success": true, "metadata": {"totalPages": 60, "totalExercises": 1500, "currentPage": 2}, "data": [` + benchJSON + `]}`))
	})
	mux.HandleFunc("/muscles/pectorals/exercises", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": [` + benchJSON + `]}`))
	})
	mux.HandleFunc("/bodyparts/back/exercises", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	})
	mux.HandleFunc("/exercises/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bench", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"success": true, "data": [` + benchJSON + `]}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	return httptest.NewServer(mux)
}

func TestClient_Get(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL+"/", "secret")
	ex, err := client.Get(context.Background(), "EIeI8Vf")
	require.NoError(t, err)

	assert.Equal(t, "barbell bench press", ex.Name)
	assert.Equal(t, []string{"pectorals"}, ex.TargetMuscles)
	assert.Equal(t, []string{"triceps", "shoulders"}, ex.SecondaryMuscles)

	scoring := ex.Scoring()
	assert.Equal(t, "EIeI8Vf", scoring.ID)
	assert.Equal(t, []string{"chest"}, scoring.BodyParts)
}

func TestClient_GetNotFound(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ListAndFilters(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, "")
	ctx := context.Background()

	list, meta, err := client.List(ctx, 25, 25)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1500, meta.TotalExercises)

	byMuscle, err := client.ByMuscle(ctx, "pectorals", 50)
	require.NoError(t, err)
	assert.Len(t, byMuscle, 1)

	byBodyPart, err := client.ByBodyPart(ctx, "back", 50)
	require.NoError(t, err)
	assert.Empty(t, byBodyPart)

	found, err := client.Search(ctx, "bench", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestClient_UpstreamError(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, "")
	var out listEnvelope
	err := client.get(context.Background(), "/broken", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
