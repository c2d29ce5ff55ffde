package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMovie(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/movie/603":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","original_title":"The Matrix","runtime":136,"vote_average":8.2,"genres":[{"id":28,"name":"Action"}]}`))
		case "/movie/999999":
			http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")

	det, err := c.FetchMovie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, int64(603), det.ID)
	assert.Equal(t, "The Matrix", det.Title)
	assert.Equal(t, 136, det.Runtime)
	require.Len(t, det.Genres, 1)
	assert.Equal(t, "Action", det.Genres[0].Name)

	_, err = c.FetchMovie(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = c.FetchMovie(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchMovieNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, "k")
	_, err := c.FetchMovie(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListURL(t *testing.T) {
	const base = "https://api.themoviedb.org/3"
	tests := []struct {
		name   string
		page   int
		search string
		sort   string
		want   string
	}{
		{"default now playing", 1, "", "", base + "/movie/now_playing?page=1"},
		{"popularity sort", 2, "", "popularity", base + "/movie/popular?page=2"},
		{"top rated sort", 1, "", "top_rated", base + "/movie/top_rated?page=1"},
		{"search", 3, "matrix", "", base + "/search/movie?page=3&query=matrix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listURL(base, tt.page, tt.search, tt.sort))
		})
	}
}

func TestListMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"A"},{"id":2,"title":"B"}],"total_pages":7}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	list, err := c.ListMovies(context.Background(), 2, "", "popularity")
	require.NoError(t, err)
	assert.Equal(t, 7, list.TotalPages)
	require.Len(t, list.Movies, 2)
	assert.Equal(t, "A", list.Movies[0].Title)
}

func TestListMoviesEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":null,"total_pages":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	list, err := c.ListMovies(context.Background(), 1, "zzzz", "")
	require.NoError(t, err)
	assert.NotNil(t, list.Movies)
	assert.Empty(t, list.Movies)
}
