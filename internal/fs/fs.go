// Package fs provides the filesystem abstraction the review store is built
// on.
//
// Two implementations exist:
//   - [Real]: production implementation backed by the [os] package, with
//     atomic writes and flock-based locking.
//   - [Faulty]: testing implementation that injects failures on selected
//     operations.
//
// The store only ever touches whole files (a snapshot is loaded, mutated in
// memory, and written back), so the interface works in terms of complete
// byte slices rather than streaming handles.
package fs

import (
	"io"
	"os"
)

// FS defines the filesystem operations the review store needs.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for fault injection in tests.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically via temp file +
	// rename. A concurrent reader observes either the old or the new
	// content, never a partial write.
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

	// Lock acquires an exclusive advisory lock scoped to path.
	//
	// The lock guards the pathname against other cooperating processes;
	// in-process serialization is the caller's job. Blocks until acquired
	// or the implementation's timeout expires. Release with
	// [Locker.Close].
	Lock(path string) (Locker, error)
}

// Locker represents a held lock. Close releases it; Close is idempotent.
type Locker interface {
	io.Closer
}
