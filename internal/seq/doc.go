// Package seq implements the sequence expander.
//
// An invocation has the form
//
//	N in 0..4 { ... }
//
// and yields the body repeated once per value of N. If the body contains
// one or more `#( ... )*` sections at any depth, the body is emitted once
// and only the sections are repeated. Inside a repeated fragment the bare
// loop variable becomes an integer literal and `name~N` fuses into a single
// identifier `name0`, `name1`, ...
package seq
