// Package timeouts defines shared timeout constants used across the roster
// process.
package timeouts

import "time"

// DirectoryRequest caps a single call to the user directory when no request
// timeout is configured.
const DirectoryRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown bounds the span flush on process exit.
const TelemetryShutdown = 5 * time.Second
