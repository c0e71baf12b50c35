package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/shared"
	tu "github.com/desertthunder/tvx/internal/testing"
	"golang.org/x/time/rate"
)

func newTestService(t *testing.T, opts TVMazeOpts) *TVMazeService {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	return NewTVMazeService(opts)
}

func TestTVMazeService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Defaults", func(t *testing.T) {
			srv := newTestService(t, TVMazeOpts{})

			if srv.baseURL != shared.DefaultBaseURL {
				t.Errorf("expected baseURL %s, got %s", shared.DefaultBaseURL, srv.baseURL)
			}
			if srv.query != shared.DefaultQuery {
				t.Errorf("expected query %s, got %s", shared.DefaultQuery, srv.query)
			}
			if srv.limiter.Limit() != rate.Inf {
				t.Errorf("expected unlimited rate, got %v", srv.limiter.Limit())
			}
			if srv.httpClient.Timeout != shared.DefaultTimeout {
				t.Errorf("expected timeout %v, got %v", shared.DefaultTimeout, srv.httpClient.Timeout)
			}
			if srv.Name() != "TVMaze" {
				t.Errorf("expected name TVMaze, got %s", srv.Name())
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			client := &http.Client{}
			srv := newTestService(t, TVMazeOpts{HTTPClient: client, RateLimit: 5})

			if srv.httpClient != client {
				t.Error("expected custom client to be used")
			}
			if srv.limiter.Limit() != rate.Limit(5) {
				t.Errorf("expected limit 5, got %v", srv.limiter.Limit())
			}
		})
	})

	t.Run("Endpoint", func(t *testing.T) {
		srv := newTestService(t, TVMazeOpts{BaseURL: "https://api.tvmaze.com/", Query: "rick-&-morty"})

		want := "https://api.tvmaze.com/singlesearch/shows?embed=episodes&q=rick-%26-morty"
		if got := srv.Endpoint(); got != want {
			t.Errorf("expected endpoint %s, got %s", want, got)
		}
	})

	t.Run("FetchShow", func(t *testing.T) {
		t.Run("Successful Request", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/singlesearch/shows" {
					t.Errorf("expected path /singlesearch/shows, got %s", r.URL.Path)
				}
				if q := r.URL.Query().Get("q"); q != "rick-&-morty" {
					t.Errorf("expected q rick-&-morty, got %s", q)
				}
				if embed := r.URL.Query().Get("embed"); embed != "episodes" {
					t.Errorf("expected embed episodes, got %s", embed)
				}
				if ua := r.Header.Get("User-Agent"); ua != "tvx-test" {
					t.Errorf("expected user agent tvx-test, got %s", ua)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tu.ShowJSON))
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL, UserAgent: "tvx-test"})
			show, err := srv.FetchShow(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if show.Name != "Rick and Morty" {
				t.Errorf("expected show name Rick and Morty, got %s", show.Name)
			}
			if len(show.Episodes) != 3 {
				t.Fatalf("expected 3 episodes, got %d", len(show.Episodes))
			}

			first := show.Episodes[0]
			if first.ID != 4186 || first.Name != "Pilot" || first.Season != 1 || first.Number != 1 {
				t.Errorf("unexpected first episode: %+v", first)
			}
			if first.ImageURL() != "https://static.tvmaze.com/ep/4186m.jpg" {
				t.Errorf("unexpected image URL %s", first.ImageURL())
			}
			if show.Episodes[2].Image != nil {
				t.Error("expected null image to decode as nil")
			}
		})

		t.Run("Empty Episode List", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id": 1, "name": "Pilot Only", "_embedded": {"episodes": []}}`))
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL})
			episodes, err := srv.FetchEpisodes(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(episodes) != 0 {
				t.Errorf("expected 0 episodes, got %d", len(episodes))
			}
		})

		t.Run("Non-Success Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL})
			_, err := srv.FetchShow(context.Background())

			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL})
			_, err := srv.FetchShow(context.Background())

			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Missing Embedded Episodes", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id": 216, "name": "Rick and Morty"}`))
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL})
			_, err := srv.FetchEpisodes(context.Background())

			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := newTestService(t, TVMazeOpts{BaseURL: "http://example.com", HTTPClient: client})
			_, err := srv.FetchShow(context.Background())

			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
			if errors.Is(err, shared.ErrParse) {
				t.Error("transport failure should not be a parse error")
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := newTestService(t, TVMazeOpts{BaseURL: "http://example.com", HTTPClient: client})
			_, err := srv.FetchShow(context.Background())

			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
			_, err := srv.FetchShow(context.Background())

			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := newTestService(t, TVMazeOpts{BaseURL: "http://example.com"})
			_, err := srv.FetchShow(ctx)

			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Rate Limited", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tu.ShowJSON))
			}))
			defer server.Close()

			srv := newTestService(t, TVMazeOpts{BaseURL: server.URL, RateLimit: 10})

			start := time.Now()
			for range 2 {
				if _, err := srv.FetchShow(context.Background()); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}

			if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
				t.Errorf("expected second request to wait on limiter, took %v", elapsed)
			}
		})
	})
}
