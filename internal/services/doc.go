// Package services defines the [EpisodeService] interface and implements it for the public TVMaze API.
//
// # TVMaze Implementation
//
// [TVMazeService] issues a single GET against /singlesearch/shows with embed=episodes and extracts the episode list
// from the _embedded object of the response. No credentials are required.
//
// Every request waits on a [rate.Limiter] before it is sent, is bounded by the client timeout and the caller's context,
// and advertises gzip, brotli and zstd support. Responses are decoded transparently by the compression transport.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNetwork] : transport failure, rate limiter wait failure, body read failure or non-2xx status
//   - [shared.ErrTimeout] : the request hit the client timeout or context deadline (also wraps ErrNetwork)
//   - [shared.ErrParse] : body is not JSON or lacks _embedded.episodes
//
// Fetches never retry; callers decide whether to offer a retry.
package services
