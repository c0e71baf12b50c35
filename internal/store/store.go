package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

// Status is the episode-loading state of a [Store].
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a point-in-time copy of the application state.
type State struct {
	Title      string           `json:"title"`
	Episodes   []models.Episode `json:"episodes"`
	Favourites []models.Episode `json:"favourites"`
	Status     Status           `json:"-"`
	Err        error            `json:"-"`
}

// Container is the state interface handed to presentation layers.
type Container interface {
	Load(ctx context.Context) error        // Load fetches episodes unless already loading or loaded
	Title() string                         // Title returns the show name, empty until loaded
	Episodes() []models.Episode            // Episodes returns a copy of the episode list
	Favourites() []models.Episode          // Favourites returns a copy of the favourites set
	Episode(id int) (models.Episode, bool) // Episode looks up a fetched episode by id
	IsFavourite(id int) bool               // IsFavourite reports favourites membership
	Toggle(episode models.Episode) bool    // Toggle flips membership and reports the new value
	Status() Status                        // Status returns the loading state
	Err() error                            // Err returns the last load error, if any
	Snapshot() State                       // Snapshot returns a consistent copy of everything above
}

var _ Container = (*Store)(nil)

// Store is the in-memory [Container] implementation. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	service services.EpisodeService
	logger  *log.Logger
	state   State
}

// New creates an empty [Store] that loads episodes from service.
func New(service services.EpisodeService, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		service: service,
		logger:  shared.WithLogger(logger, "component", "store"),
		state:   State{Episodes: []models.Episode{}, Favourites: []models.Episode{}},
	}
}

// Load runs the episode fetch when the store is Empty or Failed.
//
// While Loading or once Loaded it returns nil without fetching. If ctx is cancelled before the fetch resolves the
// result is dropped and the store goes back to Empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Status == StatusLoading || s.state.Status == StatusLoaded {
		s.mu.Unlock()
		return nil
	}
	if s.service == nil {
		err := fmt.Errorf("%w: no episode service configured", shared.ErrServiceUnavailable)
		s.state.Status = StatusFailed
		s.state.Err = err
		s.mu.Unlock()
		return err
	}
	s.state.Status = StatusLoading
	s.state.Err = nil
	s.mu.Unlock()

	s.logger.Debug("fetching episodes", "service", s.service.Name())
	show, err := s.service.FetchShow(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.state.Status = StatusEmpty
		s.logger.Debug("episode fetch discarded", "reason", ctxErr)
		return fmt.Errorf("load cancelled: %w", ctxErr)
	}

	if err != nil {
		s.state.Status = StatusFailed
		s.state.Err = err
		s.logger.Error("failed to fetch episodes", "error", err)
		return err
	}

	s.state.Title = show.Name
	s.state.Episodes = slices.Clone(show.Episodes)
	if s.state.Episodes == nil {
		s.state.Episodes = []models.Episode{}
	}
	s.state.Status = StatusLoaded
	s.logger.Info("episodes loaded", "show", show.Name, "count", len(show.Episodes))
	return nil
}

func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Title
}

func (s *Store) Episodes() []models.Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Episodes)
}

func (s *Store) Favourites() []models.Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Favourites)
}

func (s *Store) Episode(id int) (models.Episode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindEpisode(s.state.Episodes, id)
}

func (s *Store) IsFavourite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ContainsEpisode(s.state.Favourites, id)
}

// Toggle applies [ToggleFavourite] to the favourites set and reports whether episode is now a favourite.
func (s *Store) Toggle(episode models.Episode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Favourites = ToggleFavourite(s.state.Favourites, episode)
	added := ContainsEpisode(s.state.Favourites, episode.ID)
	s.logger.Debug("toggled favourite", "id", episode.ID, "favourite", added, "total", len(s.state.Favourites))
	return added
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Title:      s.state.Title,
		Episodes:   slices.Clone(s.state.Episodes),
		Favourites: slices.Clone(s.state.Favourites),
		Status:     s.state.Status,
		Err:        s.state.Err,
	}
}
