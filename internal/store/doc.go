// Package store owns the in-memory application state: the fetched episode list and the user's favourites.
//
// # Favourites Toggle
//
// [ToggleFavourite] is a pure function keyed by episode ID: present ids are removed, absent episodes are appended.
// The input slice is never mutated and the result never contains duplicate ids.
//
// # State Container
//
// [Store] implements [Container], the interface both presentation layers (internal/ui, internal/server) receive.
// Episode loading follows a small state machine:
//
//	Empty ──Load──▶ Loading ──ok──▶ Loaded
//	                   │
//	                   ├──error──▶ Failed ──Load (retry)──▶ Loading
//	                   └──ctx cancelled──▶ Empty
//
// Load is a no-op while Loading or once Loaded, so callers may invoke it at initialization without guarding against
// duplicate fetches. A cancelled context discards the fetch result so no state is written after the owning view is gone.
//
// Nothing is persisted; state lives as long as the process.
package store
