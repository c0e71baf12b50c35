package models

import "fmt"

// Image holds the artwork URLs TVMaze returns for shows and episodes.
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Episode represents a single episode of a show.
type Episode struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	Image   *Image `json:"image"`
	URL     string `json:"url,omitempty"`
	Airdate string `json:"airdate,omitempty"`
	Runtime int    `json:"runtime,omitempty"` // Runtime in minutes
}

// Code returns the conventional SxxEyy label, e.g. S01E05.
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Number)
}

// ImageURL returns the medium image URL or an empty string when the episode has no artwork.
func (e Episode) ImageURL() string {
	if e.Image == nil {
		return ""
	}
	return e.Image.Medium
}

// Show represents a show together with its embedded episodes.
type Show struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Premiered string    `json:"premiered,omitempty"`
	Image     *Image    `json:"image"`
	Episodes  []Episode `json:"episodes"`
}

// Seasons returns the distinct season numbers in episode order.
func (s Show) Seasons() []int {
	seen := make(map[int]bool)
	seasons := []int{}
	for _, ep := range s.Episodes {
		if !seen[ep.Season] {
			seen[ep.Season] = true
			seasons = append(seasons, ep.Season)
		}
	}
	return seasons
}
