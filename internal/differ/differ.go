// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Identical is printed when two templates have no delta.
const Identical = "The templates are identical."

// Options shape a diff.
type Options struct {
	// Filter is a comma-separated list of top-level keys ignored on both
	// sides, e.g. "Rules,Parameters".
	Filter string
	Color  bool
}

// Diff compares two templates and writes an ascii delta to w. It reports
// whether the templates differ.
func Diff(w io.Writer, left, right []byte, opts Options) (bool, error) {
	if w == nil {
		w = os.Stdout
	}
	log.Debugf("diff: len(left)=%d len(right)=%d filter=%s", len(left), len(right), opts.Filter)

	leftDoc, err := decode(left, opts.Filter)
	if err != nil {
		return false, fmt.Errorf("failed to read left template: %w", err)
	}
	rightDoc, err := decode(right, opts.Filter)
	if err != nil {
		return false, fmt.Errorf("failed to read right template: %w", err)
	}

	delta := gojsondiff.New().CompareObjects(leftDoc, rightDoc)
	if !delta.Modified() {
		fmt.Fprintln(w, Identical)
		return false, nil
	}

	f := formatter.NewAsciiFormatter(leftDoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, fmt.Errorf("failed to format diff: %w", err)
	}
	fmt.Fprint(w, out)
	return true, nil
}

func decode(doc []byte, filter string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	for key := range strings.SplitSeq(filter, ",") {
		if key = strings.TrimSpace(key); key != "" {
			delete(m, key)
		}
	}
	return m, nil
}
