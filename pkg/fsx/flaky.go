package fsx

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Flaky].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by
// [Flaky]. Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

// Flaky wraps an [FS] and fails selected operations deterministically.
//
// Unlike a randomized chaos filesystem, failures are keyed by path
// substring so a test can break exactly one save file while its siblings
// keep working. A zero rule set behaves like the wrapped filesystem.
//
// Flaky is safe for concurrent use.
type Flaky struct {
	base FS

	mu          sync.Mutex
	writeRules  map[string]error
	readRules   map[string]error
	renameRules map[string]error
}

// NewFlaky returns a [Flaky] filesystem wrapping base.
// Panics if base is nil.
func NewFlaky(base FS) *Flaky {
	if base == nil {
		panic("fsx: base FS is nil")
	}

	return &Flaky{
		base:        base,
		writeRules:  make(map[string]error),
		readRules:   make(map[string]error),
		renameRules: make(map[string]error),
	}
}

// FailWrites makes every WriteFileAtomic whose path contains substr fail
// with err.
func (f *Flaky) FailWrites(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeRules[substr] = err
}

// FailReads makes every ReadFile whose path contains substr fail with err.
func (f *Flaky) FailReads(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readRules[substr] = err
}

// FailRenames makes every Rename whose old or new path contains substr
// fail with err.
func (f *Flaky) FailRenames(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renameRules[substr] = err
}

// Reset removes all failure rules.
func (f *Flaky) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeRules = make(map[string]error)
	f.readRules = make(map[string]error)
	f.renameRules = make(map[string]error)
}

func (f *Flaky) match(rules map[string]error, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for substr, err := range rules {
		for _, path := range paths {
			if strings.Contains(path, substr) {
				return &InjectedError{Err: err}
			}
		}
	}

	return nil
}

func (f *Flaky) ReadFile(path string) ([]byte, error) {
	if err := f.match(f.readRules, path); err != nil {
		return nil, err
	}

	return f.base.ReadFile(path)
}

func (f *Flaky) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.match(f.writeRules, path); err != nil {
		return err
	}

	return f.base.WriteFileAtomic(path, data, perm)
}

func (f *Flaky) ReadDir(path string) ([]os.DirEntry, error) {
	return f.base.ReadDir(path)
}

func (f *Flaky) MkdirAll(path string, perm os.FileMode) error {
	return f.base.MkdirAll(path, perm)
}

func (f *Flaky) Stat(path string) (os.FileInfo, error) {
	return f.base.Stat(path)
}

func (f *Flaky) Exists(path string) (bool, error) {
	return f.base.Exists(path)
}

func (f *Flaky) Remove(path string) error {
	return f.base.Remove(path)
}

func (f *Flaky) RemoveAll(path string) error {
	return f.base.RemoveAll(path)
}

func (f *Flaky) Rename(oldpath, newpath string) error {
	if err := f.match(f.renameRules, oldpath, newpath); err != nil {
		return err
	}

	return f.base.Rename(oldpath, newpath)
}

// Compile-time interface check.
var _ FS = (*Flaky)(nil)
