// Package memory provides in-process implementations of the ports: a settable
// location, a broadcasting router, a style preservation recorder and a bounded
// journal. They back the CLI simulator, the HTTP surface and the tests.
package memory
