/*
Package registry provides the registration store drained by the transition orchestrator.

The store keeps registrations in fan-out order and hands out monotonically
increasing ids from a counter that is never reset, so a late completion from a
previous cycle can never address a registration created afterwards.
*/
package registry
