/*
Package domain contains the core domain models of the Curtain transition engine.

It defines the vocabulary shared by the orchestrator, the registration store and
every adapter: transition status, registrations and their callbacks, the
cleanup ("undo") attached to a registration, and the lifecycle events emitted
around a transition cycle. The package is kept pure and free of I/O.

# Key Entities

  - Status: Whether the displayed page is settled (idle) or waiting for exit work (transitioning).
  - Registration: A callback plus its options and identity, pending execution on the next navigation.
  - Undo: The optional disposer captured from a registration's previous run.
  - LifecycleHooks: Callbacks for observing status changes, cycles and individual callbacks.
*/
package domain
