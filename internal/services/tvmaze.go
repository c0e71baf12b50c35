// TVMaze [EpisodeService] implementation
//
// Talks to the public TVMaze REST API (https://www.tvmaze.com/api), which needs no authentication.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"golang.org/x/time/rate"
)

// tvmazeResponse mirrors the subset of the singlesearch?embed=episodes payload that tvx reads.
type tvmazeResponse struct {
	ID        int           `json:"id"`
	URL       string        `json:"url"`
	Name      string        `json:"name"`
	Premiered string        `json:"premiered"`
	Image     *models.Image `json:"image"`
	Embedded  *struct {
		Episodes []models.Episode `json:"episodes"`
	} `json:"_embedded"`
}

// TVMazeService implements the [EpisodeService] interface for TVMaze.
type TVMazeService struct {
	baseURL    string
	query      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// TVMazeOpts contains configuration options for creating a [TVMazeService].
type TVMazeOpts struct {
	BaseURL    string
	Query      string
	UserAgent  string
	Timeout    time.Duration
	RateLimit  float64 // Requests per second; zero or negative disables limiting
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewTVMazeService creates a new TVMaze service instance.
//
// When opts.HTTPClient is nil a client with opts.Timeout and the compression transport is built.
func NewTVMazeService(opts TVMazeOpts) *TVMazeService {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultBaseURL
	}
	if opts.Query == "" {
		opts.Query = shared.DefaultQuery
	}
	if opts.Timeout <= 0 {
		opts.Timeout = shared.DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		opts.HTTPClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: newCompressionTransport(base),
		}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &TVMazeService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		query:      opts.Query,
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(opts.Logger, "service", "tvmaze"),
	}
}

// Name returns the service name.
func (s *TVMazeService) Name() string {
	return "TVMaze"
}

// Endpoint returns the fully encoded singlesearch URL for the configured query.
func (s *TVMazeService) Endpoint() string {
	q := url.Values{}
	q.Set("q", s.query)
	q.Set("embed", "episodes")
	return s.baseURL + "/singlesearch/shows?" + q.Encode()
}

// FetchShow retrieves the configured show with its embedded episodes.
//
// Calls GET /singlesearch/shows?q={query}&embed=episodes.
func (s *TVMazeService) FetchShow(ctx context.Context) (*models.Show, error) {
	var payload tvmazeResponse
	if err := s.doRequest(ctx, s.Endpoint(), &payload); err != nil {
		return nil, err
	}

	if payload.Embedded == nil || payload.Embedded.Episodes == nil {
		return nil, fmt.Errorf("%w: response has no _embedded.episodes", shared.ErrParse)
	}

	return &models.Show{
		ID:        payload.ID,
		Name:      payload.Name,
		URL:       payload.URL,
		Premiered: payload.Premiered,
		Image:     payload.Image,
		Episodes:  payload.Embedded.Episodes,
	}, nil
}

// FetchEpisodes retrieves the ordered episode list of the configured show.
func (s *TVMazeService) FetchEpisodes(ctx context.Context) ([]models.Episode, error) {
	show, err := s.FetchShow(ctx)
	if err != nil {
		return nil, err
	}
	return show.Episodes, nil
}

func (s *TVMazeService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", shared.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrNetwork, err)
	}

	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %w: %w", shared.ErrNetwork, shared.ErrTimeout, err)
		}
		return fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("tvmaze response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: tvmaze API error: status %d", shared.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrParse, err)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
