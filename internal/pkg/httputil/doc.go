// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers answer through Result so every response, success or failure,
// has the same JSON framing: a single document followed by one newline.
package httputil
