package httpserver

import "time"

// ShutdownTimeout bounds how long in-flight requests may run after shutdown begins.
var ShutdownTimeout = 10 * time.Second
