package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

var _ list.Item = episodeItem{}

const favouriteMark = "★"

// episodeItem wraps [models.Episode] to implement [list.Item].
type episodeItem struct {
	episode   models.Episode
	favourite bool
}

func (i episodeItem) FilterValue() string { return i.episode.Name }
func (i episodeItem) Title() string {
	mark := " "
	if i.favourite {
		mark = favouriteMark
	}
	return fmt.Sprintf("%s %s %s", mark, i.episode.Code(), i.episode.Name)
}
func (i episodeItem) Description() string {
	desc := fmt.Sprintf("Season %d • Episode %d", i.episode.Season, i.episode.Number)
	if i.episode.Airdate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.episode.Airdate)
	}
	if i.episode.Runtime > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatRuntime(i.episode.Runtime))
	}
	return desc
}

func newEpisodeItems(episodes []models.Episode, isFavourite func(int) bool) []list.Item {
	items := make([]list.Item, len(episodes))
	for i, ep := range episodes {
		items[i] = episodeItem{episode: ep, favourite: isFavourite(ep.ID)}
	}
	return items
}
