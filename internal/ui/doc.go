// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views over the same [store.Container]:
//  1. [HomeView] : Every fetched episode, favourites marked with a star
//  2. [FavouritesView] : Favourites only
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Init issues the one-time episode
// load as a [tea.Cmd]; a failed load is rendered as an error with a retry key rather than quitting the program.
//
// Keyboard navigation uses vim-style bindings (j/k, f/space, tab, o, r, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
