// Package timeouts defines shared timeout constants used by the site binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Request caps the time a page handler may spend loading content.
const Request = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreBusy is the SQLite busy timeout applied to every connection.
const StoreBusy = 5 * time.Second
