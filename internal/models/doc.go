// Package models defines the data transfer objects shared by the fetcher, the state container and both presentation layers.
//
//   - [Show] : Show metadata with its embedded episode list
//   - [Episode] : One episode with season/number ordering and display image
//   - [Image] : Poster/still URLs as returned by TVMaze
//
// Episodes are immutable once fetched. Identity is [Episode.ID]; two values with the same ID are the same episode
// even if other fields differ.
package models
