// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"time"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/cacheutil"
	"github.com/tfctl/hellocdk/internal/log"
)

const cacheSubdir = "verify"

// Options control a multi-bucket inspection.
type Options struct {
	// Region labels reports and partitions the cache.
	Region string
	// Refresh skips cached reports.
	Refresh bool
	// MaxAge is how old a cached report may be and still be reused. Zero
	// inspects live and caches nothing.
	MaxAge time.Duration
	// CleanHours purges cache entries older than this many hours first.
	CleanHours int
}

// InspectAll inspects each declaration in order. With a MaxAge, reports
// checked within it are reused unless Refresh is set. It stops at the first
// error.
func InspectAll(ctx context.Context, api BucketAPI, decls []bucket.Declaration, opts Options) ([]Report, error) {
	if err := cacheutil.Purge(opts.CleanHours); err != nil {
		log.WithError(err).Warnf("cache purge failed")
	}

	reports := make([]Report, 0, len(decls))
	for _, d := range decls {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		subdirs := []string{cacheSubdir, opts.Region}
		if cached, ok := cachedReport(subdirs, d, opts); ok {
			log.Debugf("using cached report: %s checked=%s", d.Name, cached.CheckedAt)
			reports = append(reports, cached)
			continue
		}

		report, err := Inspect(ctx, api, d)
		if err != nil {
			return reports, err
		}
		report.Region = opts.Region

		if opts.MaxAge > 0 {
			if err := cacheutil.WriteJSON(subdirs, cacheKey(d), report); err != nil {
				log.WithError(err).Warnf("failed to cache report for %s", d.Name)
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func cachedReport(subdirs []string, d bucket.Declaration, opts Options) (Report, bool) {
	var report Report
	if opts.Refresh || opts.MaxAge <= 0 {
		return report, false
	}
	if !cacheutil.ReadJSON(subdirs, cacheKey(d), &report) {
		return report, false
	}
	if time.Since(report.CheckedAt) > opts.MaxAge {
		log.Debugf("cached report expired: %s checked=%s", d.Name, report.CheckedAt)
		return Report{}, false
	}
	return report, true
}

// cacheKey covers every declared field the report is judged against, so a
// changed declaration never reuses a stale verdict.
func cacheKey(d bucket.Declaration) string {
	return d.StackID + "/" + d.Name + "/" + d.RemovalPolicy.String() +
		"/" + boolKey(d.Versioned) + boolKey(d.AutoDeleteObjects)
}

func boolKey(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
