package store

import (
	"strings"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// SearchEpisodes returns the episodes whose name fuzzily matches query, in their original order.
//
// Matching ignores case and diacritics. A blank query returns every episode; an episode code such as "S01E02"
// matches exactly.
func SearchEpisodes(episodes []models.Episode, query string) []models.Episode {
	query = strings.TrimSpace(query)
	if query == "" {
		return episodes
	}

	return lo.Filter(episodes, func(ep models.Episode, _ int) bool {
		return strings.EqualFold(ep.Code(), query) || fuzzy.MatchNormalizedFold(query, ep.Name)
	})
}
