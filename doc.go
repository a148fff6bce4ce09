/*
Package curtain orchestrates page transitions: it holds the outgoing page on
screen until every registered exit animation has finished, then swaps in the
new page in one step.

# Concept

Components anywhere in the tree register exit work through a transition
space. When a navigation changes both the rendered output and the path, the
orchestrator fans out to every registration concurrently, waits for all of
them, swaps the displayed output and prunes one-shot registrations. A status
flag (idle or transitioning) lets styling collaborators react while the
cycle runs.

# Key Features

  - Fan-out and join: callbacks run concurrently; the swap happens only after all of them return.
  - One-shot and persistent registrations, with an undo captured from each run.
  - Back-pressure: a navigation issued during a cycle is queued and replayed after the swap.
  - Pluggable environment: location, router, style preservation and journal are ports.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/curtain"
		"github.com/aretw0/curtain/pkg/adapters/memory"
		"github.com/aretw0/curtain/pkg/domain"
	)

	type Page struct{ Title string }

	func main() {
		loc := memory.NewLocation("/")
		p := curtain.New[*Page](curtain.WithLocation(loc))

		home := &Page{Title: "Home"}
		if err := p.Mount(context.Background(), home); err != nil {
			log.Fatal(err)
		}

		dispose := p.GetTransitionSpace(func(ctx context.Context, path string) (domain.Disposer, error) {
			// Fade out, then tell the next cycle how to fade back in.
			return func() {}, nil
		})
		defer dispose()

		loc.Set("/about")
		cycle := p.Commit(&Page{Title: "About"})
		if err := cycle.Wait(context.Background()); err != nil {
			log.Fatal(err)
		}
	}
*/
package curtain
