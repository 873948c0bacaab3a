// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/tfctl/hellocdk/internal/cacheutil"
	"github.com/tfctl/hellocdk/internal/config"
)

// Object versions are immutable, so entries are keyed by version id beneath
// the bucket and key.
func cacheDirs(loc Location) []string {
	return []string{"objects", loc.Bucket, loc.Key}
}

// CacheReader reads the cached body of a version, if present and the cache
// is enabled.
func CacheReader(loc Location, versionID string) (*cacheutil.Entry, bool) {
	return cacheutil.Read(cacheDirs(loc), versionID)
}

func CacheWriter(loc Location, versionID string, data []byte) error {
	return cacheutil.Write(cacheDirs(loc), versionID, data)
}

func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean", 24)
	return cacheutil.Purge(cleanHours)
}
