// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"time"

	"github.com/tfctl/hellocdk/internal/template"
)

// Row is the listing shape of a Report.
type Row struct {
	ID         string `jsonapi:"primary,reports"`
	StackID    string `jsonapi:"attr,stack"`
	Region     string `jsonapi:"attr,region"`
	Exists     bool   `jsonapi:"attr,exists"`
	Versioning string `jsonapi:"attr,versioning"`
	AutoDelete bool   `jsonapi:"attr,auto-delete-tag"`
	Drifted    bool   `jsonapi:"attr,drifted"`
	Drift      string `jsonapi:"attr,drift"`
	CheckedAt  string `jsonapi:"attr,checked-at"`
}

// Rows converts reports into listing rows keyed by bucket name.
func Rows(reports []Report) []*Row {
	rows := make([]*Row, 0, len(reports))
	for _, r := range reports {
		_, tagged := r.Tags[template.TagAutoDelete]
		rows = append(rows, &Row{
			ID:         r.Bucket,
			StackID:    r.StackID,
			Region:     r.Region,
			Exists:     r.Exists,
			Versioning: r.Versioning,
			AutoDelete: tagged,
			Drifted:    r.Drifted(),
			Drift:      r.DriftSummary(),
			CheckedAt:  r.CheckedAt.Format(time.RFC3339),
		})
	}
	return rows
}
