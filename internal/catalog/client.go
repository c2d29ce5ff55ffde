// Package catalog implements the outbound client for the TMDB movie
// catalog.  The rest of the application treats it as the source of truth
// for movie existence and metadata; it performs no caching and no retries,
// so a transient upstream failure surfaces immediately as ErrUnavailable.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMovieNotFound is returned when the catalog reports that the requested
// movie id does not exist (HTTP 404).  Handlers translate it into a
// user-facing "movie not found" rejection.
var ErrMovieNotFound = errors.New("movie not found")

// ErrUnavailable covers every other failure mode of the catalog: network
// errors, non-2xx statuses and malformed responses.  Callers must not
// retry; the design is fail-fast.
var ErrUnavailable = errors.New("catalog unavailable")

// Genre is a single genre entry attached to a movie detail.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the reshaped detail record returned for a single movie.
// Field names follow the upstream payload so the front end can consume
// them unchanged.
type MovieDetail struct {
	ID               int64   `json:"id"`
	Genres           []Genre `json:"genres"`
	Budget           int64   `json:"budget"`
	Overview         string  `json:"overview"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	BackdropPath     string  `json:"backdrop_path"`
	Runtime          int     `json:"runtime"`
	Title            string  `json:"title"`
}

// MovieSummary is one entry of a listing response, reduced to the fields
// the front end renders on movie cards.
type MovieSummary struct {
	ID            int64  `json:"id"`
	ReleaseDate   string `json:"release_date"`
	PosterPath    string `json:"poster_path"`
	OriginalTitle string `json:"original_title"`
	Title         string `json:"title"`
	Overview      string `json:"overview"`
	BackdropPath  string `json:"backdrop_path"`
}

// MovieList is the reshaped listing response.
type MovieList struct {
	Movies     []MovieSummary `json:"movies"`
	TotalPages int            `json:"total_pages"`
}

// Client calls the TMDB HTTP API.  baseURL and apiKey are set once at
// construction and never mutated afterwards; the endpoint for a listing
// request is computed per call by listURL, so concurrent requests with
// different sort or search parameters cannot interfere with each other.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New returns a Client for the given base URL (e.g.
// "https://api.themoviedb.org/3") and bearer API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchMovie retrieves the detail record for a single movie id.  A 404
// from the upstream maps to ErrMovieNotFound; any other failure wraps
// ErrUnavailable.
func (c *Client) FetchMovie(ctx context.Context, id int64) (*MovieDetail, error) {
	endpoint := fmt.Sprintf("%s/movie/%d", c.baseURL, id)
	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status == http.StatusNotFound {
		return nil, ErrMovieNotFound
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	var det MovieDetail
	if err := json.Unmarshal(body, &det); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &det, nil
}

// listURL computes the upstream endpoint for a listing request as a pure
// function of the parameters.  Sorting wins over search when both are
// present; handlers reject that combination before calling ListMovies.
func listURL(base string, page int, search, sort string) string {
	var path string
	switch {
	case sort == "popularity":
		path = "/movie/popular"
	case sort == "top_rated":
		path = "/movie/top_rated"
	case search != "":
		path = "/search/movie"
	default:
		path = "/movie/now_playing"
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("query", search)
	}
	return base + path + "?" + q.Encode()
}

// ListMovies fetches a page of movies.  sort may be "popularity" or
// "top_rated"; search filters by title.  Every failure maps to
// ErrUnavailable because the upstream listing endpoints do not produce
// meaningful 404s.
func (c *Client) ListMovies(ctx context.Context, page int, search, sort string) (*MovieList, error) {
	if page < 1 {
		page = 1
	}
	body, status, err := c.get(ctx, listURL(c.baseURL, page, search, sort))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	var raw struct {
		Results    []MovieSummary `json:"results"`
		TotalPages int            `json:"total_pages"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	list := &MovieList{Movies: raw.Results, TotalPages: raw.TotalPages}
	if list.Movies == nil {
		list.Movies = []MovieSummary{}
	}
	return list, nil
}

// get performs one authenticated GET and returns the raw body and status.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
