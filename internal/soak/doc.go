// Package soak exercises pkg/refcount and pkg/erroror under concurrency in a
// long-running process.
//
// A round runs every check with a configured number of workers and
// iterations and produces a Report. The latest report is published through
// a refcount.Ptr so HTTP readers and the next round never race on it.
package soak
