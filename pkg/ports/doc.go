/*
Package ports defines the driven ports (interfaces) for the Curtain engine.

These interfaces decouple the orchestrator from the environment it runs in:
the navigation source, the router that announces route changes, the styling
collaborator that protects the outgoing page, and the journal that records
completed cycles.

# Key Interfaces

  - Location: Reports the current page path, or nothing when no environment is attached.
  - Router: Announces a navigation before the new page is produced.
  - StylePreserver: Keeps the outgoing page's styling alive for the duration of a cycle.
  - Journal: Records completed transition cycles (memory or Redis).
*/
package ports
