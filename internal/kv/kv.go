// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kv

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// Entry represents a stored value on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Store is a directory of values, one file per key.
type Store struct {
	dir string
}

// Dir resolves the base data directory.
// Precedence:
//  1. WTYCTL_DATA_DIR, if set and non-empty
//  2. os.UserConfigDir()/wtyctl
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if d, ok := os.LookupEnv("WTYCTL_DATA_DIR"); ok && d != "" {
		return d, true
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "wtyctl"), true
	}
	return "", false
}

// Open returns a Store rooted at dir, creating it if needed. An empty dir
// resolves through Dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		d, ok := Dir()
		if !ok {
			return nil, errors.New("unable to resolve a data directory, set WTYCTL_DATA_DIR")
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Root returns the directory backing s.
func (s *Store) Root() string {
	return s.dir
}

// Path returns where the value for clearKey lives.
func (s *Store) Path(clearKey string) string {
	return filepath.Join(s.dir, encodeKey(clearKey))
}

// Get reads the value for clearKey. A missing key is not an error; ok is
// false.
func (s *Store) Get(clearKey string) (*Entry, bool, error) {
	p := s.Path(clearKey)
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", clearKey, err)
	}
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       bytes.TrimSpace(b),
	}, true, nil
}

// Put replaces the value for clearKey. Readers see either the old or the new
// value, never a partial write.
func (s *Store) Put(clearKey string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", clearKey, err)
	}
	defer func() {
		// Only still there if something below failed.
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", clearKey, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", clearKey, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", clearKey, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to chmod %s: %w", clearKey, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(clearKey)); err != nil {
		return fmt.Errorf("failed to commit %s: %w", clearKey, err)
	}

	log.Debugf("kv put %s (%d bytes)", clearKey, len(data))
	return nil
}

// Delete removes clearKey. Deleting a missing key is not an error.
func (s *Store) Delete(clearKey string) error {
	if err := os.Remove(s.Path(clearKey)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", clearKey, err)
	}
	return nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
