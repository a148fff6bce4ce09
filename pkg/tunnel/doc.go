// Package tunnel moves content produced in one place of a tree to be
// consumed somewhere else, through a fixed set of named channels.
//
// Producers feed nodes through a channel's In side; consumers read the live
// nodes, in feed order, from its Out side. The "default" channel always
// exists.
package tunnel
