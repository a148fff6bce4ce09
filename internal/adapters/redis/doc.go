// Package redis provides a ports.Journal backed by a capped Redis list, so
// several processes serving the same site share one transition history.
package redis
