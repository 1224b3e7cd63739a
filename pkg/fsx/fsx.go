// Package fsx provides the filesystem abstraction used by the save engine.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the engine needs
//   - [Real]: production implementation using the [os] package
//   - [Flaky]: testing implementation that injects deterministic failures
//
// The interface is intentionally narrow: it covers exactly the operations
// the archive swap protocol performs, so a test double only has to
// intercept a handful of methods.
package fsx

import "os"

// FS defines the filesystem operations used for durable save files.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection. Paths use OS semantics (like the os
// package and path/filepath), not the slash-separated paths of io/fs.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename to prevent partial writes on crash.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries sorted by name.
	// See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error

	// RemoveAll deletes a path and any children. See [os.RemoveAll].
	RemoveAll(path string) error

	// Rename moves/renames a file or directory. See [os.Rename].
	// Atomic on the same filesystem.
	Rename(oldpath, newpath string) error
}
