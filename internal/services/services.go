// package services defines interface EpisodeService for fetching show data from HTTP APIs
//
// TVMaze
package services

import (
	"context"

	"github.com/desertthunder/tvx/internal/models"
)

// EpisodeService defines the interface for providers that can fetch a show and its episode list.
type EpisodeService interface {
	// FetchShow retrieves the configured show together with its embedded episodes.
	FetchShow(ctx context.Context) (*models.Show, error)

	// FetchEpisodes retrieves only the ordered episode list of the configured show.
	FetchEpisodes(ctx context.Context) ([]models.Episode, error)

	// Name returns the name of the service (e.g., "TVMaze")
	Name() string
}
