package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
	tu "github.com/desertthunder/tvx/internal/testing"
)

func newLoadedServer(t *testing.T, n int) (*Server, *store.Store) {
	t.Helper()
	st := store.New(tu.NewMockEpisodeService(n), shared.NewLogger(io.Discard))
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return New("127.0.0.1:0", st, shared.NewLogger(io.Discard)), st
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Episodes []struct {
		ID        int  `json:"id"`
		Favourite bool `json:"favourite"`
	} `json:"episodes"`
}

func decodeAPI(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestServerPages(t *testing.T) {
	t.Run("home lists every episode", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 5)
		rec := do(t, srv.Handler(), http.MethodGet, "/", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"Rick and Morty", "Pick your favourite episodes", "Favourite(s) 0", "Episode 5", "medium/1.jpg"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected page to contain %q", want)
			}
		}
	})

	t.Run("home search", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 12)

		body := do(t, srv.Handler(), http.MethodGet, "/?q=episode+12", nil).Body.String()
		if !strings.Contains(body, "Episode 12") || strings.Contains(body, "Episode 3<") {
			t.Errorf("expected only matching episodes, got %q", body)
		}
		if !strings.Contains(body, `value="episode 12"`) {
			t.Error("expected query echoed in search box")
		}

		body = do(t, srv.Handler(), http.MethodGet, "/?q=zzz", nil).Body.String()
		if !strings.Contains(body, "No episodes match") {
			t.Error("expected no-match message")
		}
	})

	t.Run("faves shows only favourites", func(t *testing.T) {
		srv, st := newLoadedServer(t, 5)
		ep, _ := st.Episode(2)
		st.Toggle(ep)

		body := do(t, srv.Handler(), http.MethodGet, "/faves", nil).Body.String()
		if !strings.Contains(body, "Episode 2") {
			t.Error("expected favourite episode on page")
		}
		if strings.Contains(body, "Episode 3") {
			t.Error("expected non-favourite episode to be absent")
		}
		if !strings.Contains(body, "Favourite(s) 1") {
			t.Error("expected favourite counter of 1")
		}
	})

	t.Run("empty favourites", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 2)
		body := do(t, srv.Handler(), http.MethodGet, "/faves", nil).Body.String()
		if !strings.Contains(body, "No favourites yet.") {
			t.Error("expected empty favourites message")
		}
	})

	t.Run("failed load renders error and retry", func(t *testing.T) {
		svc := tu.NewMockEpisodeService(2)
		svc.Err = shared.ErrNetwork
		st := store.New(svc, shared.NewLogger(io.Discard))
		_ = st.Load(context.Background())
		srv := New("", st, shared.NewLogger(io.Discard))

		body := do(t, srv.Handler(), http.MethodGet, "/", nil).Body.String()
		if !strings.Contains(body, "Failed to load episodes") || !strings.Contains(body, `action="/retry"`) {
			t.Errorf("expected error state with retry form, got %q", body)
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		if rec := do(t, srv.Handler(), http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestServerToggle(t *testing.T) {
	t.Run("toggles and redirects", func(t *testing.T) {
		srv, st := newLoadedServer(t, 5)

		rec := do(t, srv.Handler(), http.MethodPost, "/favourites/3", url.Values{"next": {"/faves"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/faves" {
			t.Errorf("expected redirect to /faves, got %q", loc)
		}
		if !st.IsFavourite(3) {
			t.Error("expected episode 3 to be a favourite")
		}

		api := decodeAPI(t, do(t, srv.Handler(), http.MethodGet, "/api/favourites", nil))
		if api.Count != 1 || api.Episodes[0].ID != 3 || !api.Episodes[0].Favourite {
			t.Errorf("unexpected favourites response %+v", api)
		}

		do(t, srv.Handler(), http.MethodPost, "/favourites/3", nil)
		if st.IsFavourite(3) {
			t.Error("expected second toggle to remove episode 3")
		}
	})

	t.Run("redirect target is restricted", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		rec := do(t, srv.Handler(), http.MethodPost, "/favourites/1", url.Values{"next": {"https://evil.example"}})
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %q", loc)
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		if rec := do(t, srv.Handler(), http.MethodPost, "/favourites/abc", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		if rec := do(t, srv.Handler(), http.MethodPost, "/favourites/99", nil); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		if rec := do(t, srv.Handler(), http.MethodGet, "/favourites/1", nil); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestServerAPI(t *testing.T) {
	t.Run("episodes", func(t *testing.T) {
		srv, st := newLoadedServer(t, 4)
		ep, _ := st.Episode(4)
		st.Toggle(ep)

		rec := do(t, srv.Handler(), http.MethodGet, "/api/episodes", nil)
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		api := decodeAPI(t, rec)
		if api.Title != "Rick and Morty" || api.Status != "loaded" || api.Count != 4 {
			t.Errorf("unexpected response %+v", api)
		}
		if api.Episodes[0].Favourite || !api.Episodes[3].Favourite {
			t.Errorf("unexpected favourite flags %+v", api.Episodes)
		}
	})

	t.Run("failed load is 502", func(t *testing.T) {
		svc := tu.NewMockEpisodeService(1)
		svc.Err = shared.ErrNetwork
		st := store.New(svc, shared.NewLogger(io.Discard))
		_ = st.Load(context.Background())

		rec := do(t, New("", st, nil).Handler(), http.MethodGet, "/api/episodes", nil)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("POST is not allowed", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		if rec := do(t, srv.Handler(), http.MethodPost, "/api/episodes", nil); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("healthz", func(t *testing.T) {
		srv, _ := newLoadedServer(t, 1)
		rec := do(t, srv.Handler(), http.MethodGet, "/healthz", nil)

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if body["status"] != "ok" || body["load"] != "loaded" {
			t.Errorf("unexpected health body %v", body)
		}
	})
}

func TestServerRetry(t *testing.T) {
	svc := tu.NewMockEpisodeService(3)
	svc.Err = errors.Join(shared.ErrNetwork, errors.New("connection refused"))
	st := store.New(svc, shared.NewLogger(io.Discard))
	_ = st.Load(context.Background())
	srv := New("", st, shared.NewLogger(io.Discard))

	svc.Err = nil
	rec := do(t, srv.Handler(), http.MethodPost, "/retry", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if st.Status() != store.StatusLoaded || len(st.Episodes()) != 3 {
		t.Errorf("expected retry to load episodes, status %s", st.Status())
	}

	do(t, srv.Handler(), http.MethodPost, "/retry", nil)
	if svc.Calls() != 2 {
		t.Errorf("expected retry on a loaded store to be a no-op, got %d calls", svc.Calls())
	}
}

func TestServerServe(t *testing.T) {
	svc := tu.NewMockEpisodeService(2)
	st := store.New(svc, shared.NewLogger(io.Discard))
	srv := New("127.0.0.1:0", st, shared.NewLogger(io.Discard))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	deadline := time.Now().Add(2 * time.Second)
	for st.Status() != store.StatusLoaded && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st.Status() != store.StatusLoaded {
		t.Fatalf("expected initial load on start, status %s", st.Status())
	}

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}

	if svc.Calls() != 1 {
		t.Errorf("expected exactly one fetch, got %d", svc.Calls())
	}
}
