// Package main hosts the mediaorg CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// scanned file lists to the batch runner for renames, tagging and undo. Batch
// commands hold an exclusive lock on the target tree for their duration so
// two invocations never number the same directory at once.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through flags and rendering only.
package main
