package store

import (
	"github.com/desertthunder/tvx/internal/models"
	"github.com/samber/lo"
)

// ToggleFavourite returns the next favourites set after toggling episode.
//
// Membership is decided by ID only. The returned slice never aliases favourites.
func ToggleFavourite(favourites []models.Episode, episode models.Episode) []models.Episode {
	if ContainsEpisode(favourites, episode.ID) {
		return lo.Filter(favourites, func(fav models.Episode, _ int) bool {
			return fav.ID != episode.ID
		})
	}

	next := make([]models.Episode, len(favourites), len(favourites)+1)
	copy(next, favourites)
	return append(next, episode)
}

// ContainsEpisode reports whether an episode with id is present in episodes.
func ContainsEpisode(episodes []models.Episode, id int) bool {
	return lo.ContainsBy(episodes, func(ep models.Episode) bool {
		return ep.ID == id
	})
}

// FindEpisode returns the episode with id, if present.
func FindEpisode(episodes []models.Episode, id int) (models.Episode, bool) {
	return lo.Find(episodes, func(ep models.Episode) bool {
		return ep.ID == id
	})
}
