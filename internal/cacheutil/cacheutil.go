// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/hellocdk/internal/log"
)

const (
	dirEnv     = "HELLOCDK_CACHE_DIR"
	enabledEnv = "HELLOCDK_CACHE"
	appDir     = "hellocdk"
)

// Entry is a cached artifact on disk. Key is the clear-text key and
// EncodedKey the hashed file name.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Dir resolves the base cache directory: HELLOCDK_CACHE_DIR when set, else
// os.UserCacheDir()/hellocdk. It returns false when neither resolves.
func Dir() (string, bool) {
	if c := os.Getenv(dirEnv); c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDir), true
	}
	return "", false
}

// Enabled is true unless HELLOCDK_CACHE is "0" or "false".
func Enabled() bool {
	switch os.Getenv(enabledEnv) {
	case "0", "false":
		return false
	default:
		return true
	}
}

// EntryPath returns where the entry for clearKey beneath subdirs lives and
// whether a file exists there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, subdirs...)
	p := filepath.Join(append(parts, encodeKey(clearKey))...)
	_, err := os.Stat(p)
	return p, err == nil
}

// Purge removes cache files older than hours. hours <= 0 disables cleaning.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		log.Debugf("removed cache file %s", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the cached entry for clearKey, if any.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       bytes.TrimSpace(b),
	}, true
}

// Write stores data for clearKey beneath subdirs. It is a no-op when caching
// is disabled.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// ReadJSON decodes the cached entry for clearKey into v. Undecodable entries
// count as misses.
func ReadJSON(subdirs []string, clearKey string, v any) bool {
	entry, ok := Read(subdirs, clearKey)
	if !ok {
		return false
	}
	if err := json.Unmarshal(entry.Data, v); err != nil {
		log.Debugf("cache entry unreadable: key=%s err=%v", clearKey, err)
		return false
	}
	return true
}

// WriteJSON encodes v and stores it under clearKey.
func WriteJSON(subdirs []string, clearKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return Write(subdirs, clearKey, data)
}

func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
