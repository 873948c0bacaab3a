// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"fmt"
	"path/filepath"

	"github.com/tfctl/hellocdk/internal/template"
)

// Row summarizes one synthesized stack for listing.
type Row struct {
	ID                string `jsonapi:"primary,stacks"`
	Bucket            string `jsonapi:"attr,bucket"`
	LogicalID         string `jsonapi:"attr,logical-id"`
	Versioned         bool   `jsonapi:"attr,versioned"`
	RemovalPolicy     string `jsonapi:"attr,removal-policy"`
	AutoDeleteObjects bool   `jsonapi:"attr,auto-delete-objects"`
	Template          string `jsonapi:"attr,template"`
}

// Rows reads each stack's bucket back out of its template.
func (a *Assembly) Rows() ([]*Row, error) {
	rows := make([]*Row, 0, len(a.Stacks))
	for _, s := range a.Stacks {
		sum, err := template.Summarize(s.Template)
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", s.ID, err)
		}
		rows = append(rows, &Row{
			ID:                s.ID,
			Bucket:            sum.Name,
			LogicalID:         sum.LogicalID,
			Versioned:         sum.Versioned,
			RemovalPolicy:     string(sum.RemovalPolicy),
			AutoDeleteObjects: sum.AutoDeleteObjects,
			Template:          filepath.Join(a.Directory, s.ID+".template.json"),
		})
	}
	return rows, nil
}
