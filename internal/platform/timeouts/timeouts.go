// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// ScenarioStep caps a single scenario step.
const ScenarioStep = 10 * time.Second

// WatchDebounce is the quiet period after a document save before it is
// derived again.
const WatchDebounce = 200 * time.Millisecond
