/*
Package observability provides lifecycle hooks for monitoring the transition
orchestrator.

It includes Prometheus metrics, structured logging of every event, a journal
writer that records completed cycles, and Chain to combine them into the single
domain.LifecycleHooks value a provider accepts.
*/
package observability
