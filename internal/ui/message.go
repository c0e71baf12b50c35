package ui

import tea "github.com/charmbracelet/bubbletea"

var (
	_ tea.Msg = episodesLoadedMsg{}
	_ tea.Msg = openedMsg{}
)

// episodesLoadedMsg reports completion of the one-time store load.
type episodesLoadedMsg struct {
	err error
}

// openedMsg reports the result of opening an episode page in the browser.
type openedMsg struct {
	url string
	err error
}
