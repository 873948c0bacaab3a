// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/hellocdk/internal/log"
)

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column.
type Attr struct {
	// Key is the driller path into each row.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that only feed filtering and sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the column and the key in json/yaml output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is applied to string values before output.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attr's transform spec to value. Non-string values
// pass through untouched.
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		result = transformTime(result, strings.Contains(a.TransformSpec, "T"))
	}

	// The later of the two case letters wins, so a per-attr spec overrides
	// a global one prepended to it.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	switch {
	case lastL > lastU:
		result = strings.ToLower(result)
	case lastU > lastL:
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = shorten(result, l)
	}

	log.Tracef("transformed: key=%s spec=%s result=%s", a.Key, a.TransformSpec, result)
	return result
}

// transformTime renders an RFC3339 timestamp in local time, or as a relative
// "time ago". Unparseable values are returned as-is.
func transformTime(value string, ago bool) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	local := t.In(time.Local)
	if ago {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

// shorten truncates to l characters, or for negative l elides the middle so
// that both ends stay visible.
func shorten(s string, l int) string {
	abs := l
	if abs < 0 {
		abs = -abs
	}
	if len(s) <= abs {
		return s
	}
	if l >= 0 {
		return s[:l]
	}
	keep := abs/2 - 1
	if keep < 1 {
		return s[:abs]
	}
	return s[:keep] + ".." + s[len(s)-keep:]
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a --attrs spec and merges it into the list. Entries naming an
// existing attr update it in place.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[keyIdx])}
		if attr.Key == "" {
			return fmt.Errorf("empty attr key in %q", value)
		}
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		// Default the output key to the last path segment.
		if len(fields) == 1 || strings.TrimSpace(fields[outputIdx]) == "" {
			segments := strings.Split(strings.TrimPrefix(attr.Key, "."), ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		for i := range *a {
			existing := &(*a)[i]
			if existing.OutputKey == attr.OutputKey || existing.Key == resolveKey(attr.Key) {
				existing.Include = attr.Include
				existing.OutputKey = attr.OutputKey
				existing.TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		attr.Key = resolveKey(attr.Key)
		*a = append(*a, attr)
	}

	log.Debugf("attrs set: %s", a.String())
	return nil
}

// resolveKey maps ".x" onto the row root and "x" onto row.attributes.
func resolveKey(key string) string {
	switch {
	case key == "*":
		return key
	case strings.HasPrefix(key, "."):
		return key[1:]
	default:
		return "attributes." + key
	}
}

// SetGlobalTransformSpec prepends the '*' attr's transform to every attr.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
}

// OutputKeys returns the keys of included attrs, in order.
func (a AttrList) OutputKeys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			keys = append(keys, attr.OutputKey)
		}
	}
	return keys
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}
