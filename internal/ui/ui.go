package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	FavouritesView
)

const (
	defaultTitle = "Episodes"
	tagline      = "Pick your favourite episodes"
	chromeHeight = 8 // header, nav, status and help lines around the list
)

// Model represents the TUI application state.
//
// Episode and favourites data live in the injected [store.Container]; the model only keeps view state.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	store   store.Container
	logger  *log.Logger
	view    ViewState
	width   int
	height  int
	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	loading bool
	err     error
	status  string
	openURL func(string) error
}

// NewModel creates a new TUI model over st. Cancelling ctx (or quitting) abandons an in-flight load.
func NewModel(ctx context.Context, st store.Container, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	ctx, cancel := context.WithCancel(ctx)

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Home"
	l.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		store:   st,
		logger:  shared.WithLogger(logger, "component", "ui"),
		view:    HomeView,
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
		openURL: shared.OpenBrowser,
	}
}

// Init starts the one-time episode load. Later updates never re-issue it; only the retry key does.
func (m *Model) Init() tea.Cmd {
	if m.store.Status() == store.StatusLoaded {
		m.refreshItems()
		return nil
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadEpisodes())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-chromeHeight, 0))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case episodesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return m, nil
			}
			m.err = msg.err
			m.logger.Error("episode load failed", "error", msg.err)
			return m, nil
		}
		m.err = nil
		return m, m.refreshItems()

	case openedMsg:
		if msg.err != nil {
			m.status = styles.warn.Render(fmt.Sprintf("Could not open %s: %v", msg.url, msg.err))
		} else {
			m.status = fmt.Sprintf("Opened %s", msg.url)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.retry):
		if m.err == nil || m.loading {
			return m, nil
		}
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadEpisodes())

	case m.loading || m.err != nil:
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		return m, m.toggleSelected()

	case key.Matches(msg, m.keys.views):
		if m.view == HomeView {
			m.view = FavouritesView
		} else {
			m.view = HomeView
		}
		m.status = ""
		m.list.ResetFilter()
		m.list.Select(0)
		return m, m.refreshItems()

	case key.Matches(msg, m.keys.open):
		if item, ok := m.list.SelectedItem().(episodeItem); ok && item.episode.URL != "" {
			return m, m.open(item.episode.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) toggleSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(episodeItem)
	if !ok {
		return nil
	}

	if m.store.Toggle(item.episode) {
		m.status = styles.ok.Render(fmt.Sprintf("%s added to favourites", item.episode.Name))
	} else {
		m.status = styles.warn.Render(fmt.Sprintf("%s removed from favourites", item.episode.Name))
	}
	return m.refreshItems()
}

// refreshItems rebuilds the list from the store for the current view, keeping the cursor in range.
func (m *Model) refreshItems() tea.Cmd {
	episodes := m.store.Episodes()
	m.list.Title = "Home"
	if m.view == FavouritesView {
		episodes = m.store.Favourites()
		m.list.Title = "Favourites"
	}

	idx := m.list.Index()
	cmd := m.list.SetItems(newEpisodeItems(episodes, m.store.IsFavourite))
	if n := len(episodes); n > 0 && idx >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m *Model) loadEpisodes() tea.Cmd {
	return func() tea.Msg {
		return episodesLoadedMsg{err: m.store.Load(m.ctx)}
	}
}

func (m *Model) open(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: m.openURL(url)}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s Loading episodes...", m.spinner.View()))
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Failed to load episodes: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.quit}))
		return b.String()
	case m.view == FavouritesView && len(m.list.Items()) == 0:
		b.WriteString(styles.help.Render("No favourites yet. Press tab to go back and f to add some."))
	default:
		b.WriteString(m.list.View())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.views, m.keys.open, m.keys.quit}))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.store.Title()
	if title == "" {
		title = defaultTitle
	}

	home := styles.inactive.Render("Home")
	faves := styles.inactive.Render(m.favouritesLabel())
	if m.view == HomeView {
		home = styles.active.Render("Home")
	} else {
		faves = styles.active.Render(m.favouritesLabel())
	}

	return fmt.Sprintf("%s\n%s\n\n%s  %s",
		styles.title.Render(title),
		styles.help.Render(tagline),
		home,
		faves,
	)
}

func (m *Model) favouritesLabel() string {
	return fmt.Sprintf("Favourite(s) %d", len(m.store.Favourites()))
}
