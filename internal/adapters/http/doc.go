// Package http exposes a simulated site over a small JSON control API with a
// server-sent event stream of status changes.
package http
