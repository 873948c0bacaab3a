// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ovutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoVersion is returned when a spec matches none of the versions.
var ErrNoVersion = errors.New("no matching object version")

// Version is one version of an object key.
type Version struct {
	ID           string
	LastModified time.Time
	Size         int64
	Latest       bool
}

// Resolve takes the versions of a key plus specs and returns the versions that
// match the specs. versions is most recent first. A spec can be -
//
//	empty  - the current version.
//	CUR~N  - N versions before the current one (~N works too).
//	-N, 0  - same as CUR~N.
//	id     - the version whose id starts with id.
func Resolve(versions []Version, specs ...string) ([]Version, error) {
	if len(specs) == 0 {
		specs = []string{"CUR~0"}
	}

	result := make([]Version, 0, len(specs))
	for _, spec := range specs {
		v, err := resolveSpec(spec, versions)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	return result, nil
}

func resolveSpec(spec string, versions []Version) (Version, error) {
	spec = strings.TrimSpace(spec)
	upper := strings.ToUpper(spec)

	switch {
	case spec == "":
		return resolveIndex(0, versions)

	case strings.HasPrefix(upper, "CUR~"), strings.HasPrefix(spec, "~"):
		_, n, _ := strings.Cut(spec, "~")
		index, err := strconv.Atoi(n)
		if err != nil || index < 0 {
			return Version{}, fmt.Errorf("invalid version index: %s", spec)
		}
		return resolveIndex(index, versions)

	case isRelative(spec):
		i, _ := strconv.Atoi(spec)
		return resolveIndex(-i, versions)

	default:
		return resolveIDSpec(spec, versions)
	}
}

func resolveIndex(index int, versions []Version) (Version, error) {
	if index > len(versions)-1 {
		return Version{}, fmt.Errorf("%w: index %d out of range for %d versions", ErrNoVersion, index, len(versions))
	}
	return versions[index], nil
}

// resolveIDSpec returns the first version whose id starts with spec.
func resolveIDSpec(spec string, versions []Version) (Version, error) {
	for _, v := range versions {
		if strings.HasPrefix(v.ID, spec) {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%w: id prefix %s", ErrNoVersion, spec)
}

// isRelative reports whether s is 0 or a negative integer.
func isRelative(s string) bool {
	i, err := strconv.Atoi(s)
	return err == nil && i <= 0
}
