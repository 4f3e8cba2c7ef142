// Package timeouts defines shared timeout constants used across the host.
// Centralizing these values prevents drift between components and makes the
// durations discoverable.
package timeouts

import "time"

// Narration caps a single AI narration call. When the budget is exhausted
// the DM command degrades to the fallback narration so the match keeps
// moving.
const Narration = 30 * time.Second

// AdapterPoll is how long the coordinator sleeps when no adapter had a
// pending event.
const AdapterPoll = 50 * time.Millisecond

// AdapterStop limits how long the coordinator waits for an adapter to stop
// during graceful shutdown.
const AdapterStop = 5 * time.Second

// ReadHeader limits how long the websocket adapter's HTTP server waits for
// request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
