// Package site assembles a simulated multi-page site on top of a curtain
// provider: configured pages, exit animations that sleep for a while, a
// journal, metrics and a world projector. It backs both the CLI and the HTTP
// control surface.
package site
