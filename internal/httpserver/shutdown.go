package httpserver

import "time"

// ShutdownTimeout bounds graceful shutdown, including draining the image
// pipeline queue.
var ShutdownTimeout = 15 * time.Second
