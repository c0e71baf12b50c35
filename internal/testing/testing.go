// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tvx/internal/models"
)

// MockEpisodeService is a test double for services.EpisodeService.
//
// It returns Show (or Err) from every fetch and counts calls. When Block is non-nil, fetches wait until it is closed or
// the context is cancelled.
type MockEpisodeService struct {
	Show  *models.Show
	Err   error
	Block chan struct{}

	mu    sync.Mutex
	calls int
}

// NewMockEpisodeService returns a mock serving a show with n sequential episodes.
func NewMockEpisodeService(n int) *MockEpisodeService {
	return &MockEpisodeService{Show: &models.Show{ID: 216, Name: "Rick and Morty", Episodes: Episodes(n)}}
}

func (m *MockEpisodeService) FetchShow(ctx context.Context) (*models.Show, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Show, nil
}

func (m *MockEpisodeService) FetchEpisodes(ctx context.Context) ([]models.Episode, error) {
	show, err := m.FetchShow(ctx)
	if err != nil {
		return nil, err
	}
	return show.Episodes, nil
}

func (m *MockEpisodeService) Name() string { return "mock" }

// Calls reports how many fetches were issued.
func (m *MockEpisodeService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Episodes builds n episodes with ids 1..n, three per season.
func Episodes(n int) []models.Episode {
	episodes := make([]models.Episode, n)
	for i := range n {
		episodes[i] = models.Episode{
			ID:      i + 1,
			Name:    fmt.Sprintf("Episode %d", i+1),
			Season:  i/3 + 1,
			Number:  i%3 + 1,
			Image:   &models.Image{Medium: fmt.Sprintf("https://static.tvmaze.com/medium/%d.jpg", i+1)},
			URL:     fmt.Sprintf("https://www.tvmaze.com/episodes/%d", i+1),
			Airdate: "2013-12-02",
			Runtime: 22,
		}
	}
	return episodes
}

// ShowJSON is a trimmed TVMaze singlesearch response with three embedded episodes.
const ShowJSON = `{
  "id": 216,
  "url": "https://www.tvmaze.com/shows/216/rick-and-morty",
  "name": "Rick and Morty",
  "premiered": "2013-12-02",
  "image": {"medium": "https://static.tvmaze.com/show/medium.jpg", "original": "https://static.tvmaze.com/show/original.jpg"},
  "_embedded": {
    "episodes": [
      {"id": 4186, "url": "https://www.tvmaze.com/episodes/4186/rick-and-morty-1x01-pilot", "name": "Pilot", "season": 1, "number": 1, "airdate": "2013-12-02", "runtime": 23, "image": {"medium": "https://static.tvmaze.com/ep/4186m.jpg", "original": "https://static.tvmaze.com/ep/4186o.jpg"}},
      {"id": 4187, "url": "https://www.tvmaze.com/episodes/4187/rick-and-morty-1x02-lawnmower-dog", "name": "Lawnmower Dog", "season": 1, "number": 2, "airdate": "2013-12-09", "runtime": 23, "image": {"medium": "https://static.tvmaze.com/ep/4187m.jpg", "original": "https://static.tvmaze.com/ep/4187o.jpg"}},
      {"id": 4188, "url": "https://www.tvmaze.com/episodes/4188/rick-and-morty-1x03-anatomy-park", "name": "Anatomy Park", "season": 1, "number": 3, "airdate": "2013-12-16", "runtime": 23, "image": null}
    ]
  }
}`

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
