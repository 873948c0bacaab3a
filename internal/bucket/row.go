// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bucket

// Row is the listing shape of a Declaration. The jsonapi tags drive both the
// ls payload and its --schema dump.
type Row struct {
	ID                string `jsonapi:"primary,buckets"`
	StackID           string `jsonapi:"attr,stack"`
	ConstructID       string `jsonapi:"attr,construct-id"`
	Description       string `jsonapi:"attr,description"`
	Versioned         bool   `jsonapi:"attr,versioned"`
	RemovalPolicy     string `jsonapi:"attr,removal-policy"`
	EffectivePolicy   string `jsonapi:"attr,effective-policy"`
	AutoDeleteObjects bool   `jsonapi:"attr,auto-delete-objects"`
}

// Rows converts declarations into listing rows, keyed by bucket name.
func Rows(decls []Declaration) []*Row {
	rows := make([]*Row, 0, len(decls))
	for _, d := range decls {
		rows = append(rows, &Row{
			ID:                d.Name,
			StackID:           d.StackID,
			ConstructID:       d.ConstructID(),
			Description:       d.Description,
			Versioned:         d.Versioned,
			RemovalPolicy:     d.RemovalPolicy.String(),
			EffectivePolicy:   string(d.RemovalPolicy.Effective()),
			AutoDeleteObjects: d.AutoDeleteObjects,
		})
	}
	return rows
}
