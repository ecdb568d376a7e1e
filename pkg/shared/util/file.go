/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicFile is a file that only appears at its destination once committed. Until then it lives
// as a temporary file in the destination directory.
type AtomicFile struct {
	*os.File
	dest string
	done bool
}

// CreateAtomic creates the directory of dest when needed and opens a temporary file next to it.
func CreateAtomic(dest string) (*AtomicFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{File: tmp, dest: dest}, nil
}

// Dest returns the final path of the file.
func (f *AtomicFile) Dest() string {
	return f.dest
}

// Commit syncs the temporary file and renames it over the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	if err := f.Sync(); err != nil {
		f.discard()
		return fmt.Errorf("failed to sync %q: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("failed to close %q: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), f.dest); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Abort removes the temporary file, leaving the destination untouched. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	_ = f.Close()
	_ = os.Remove(f.Name())
}

// WriteFileAtomic writes through a temporary file in the destination directory and renames it
// over dest, so readers never observe a partially written file.
func WriteFileAtomic(dest string, write func(w io.Writer) error) error {
	f, err := CreateAtomic(dest)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
