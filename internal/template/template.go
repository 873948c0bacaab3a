// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/tfctl/hellocdk/internal/bucket"
)

const (
	TypeBucket     = "AWS::S3::Bucket"
	TypeAutoDelete = "Custom::S3AutoDeleteObjects"
	TagAutoDelete  = "aws-cdk:auto-delete-objects"
)

var (
	ErrBucketCount     = errors.New("template must declare exactly one bucket")
	ErrInvalidTemplate = errors.New("invalid template")
)

// Resource is one entry of a template's Resources map.
type Resource struct {
	LogicalID           string
	Type                string
	DeletionPolicy      string
	UpdateReplacePolicy string
	Properties          map[string]any
}

// Resources returns the template's resources sorted by logical id.
func Resources(tpl []byte) ([]Resource, error) {
	if !gjson.ValidBytes(tpl) {
		return nil, ErrInvalidTemplate
	}

	var resources []Resource
	gjson.GetBytes(tpl, "Resources").ForEach(func(key, value gjson.Result) bool {
		r := Resource{
			LogicalID:           key.String(),
			Type:                value.Get("Type").String(),
			DeletionPolicy:      value.Get("DeletionPolicy").String(),
			UpdateReplacePolicy: value.Get("UpdateReplacePolicy").String(),
		}
		if props, ok := value.Get("Properties").Value().(map[string]any); ok {
			r.Properties = props
		}
		resources = append(resources, r)
		return true
	})

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].LogicalID < resources[j].LogicalID
	})
	return resources, nil
}

// Buckets returns only the S3 bucket resources.
func Buckets(tpl []byte) ([]Resource, error) {
	all, err := Resources(tpl)
	if err != nil {
		return nil, err
	}
	var buckets []Resource
	for _, r := range all {
		if r.Type == TypeBucket {
			buckets = append(buckets, r)
		}
	}
	return buckets, nil
}

// Rows flattens resources into the row shape shared by all list output: a
// root "id" plus everything else under "attributes".
func Rows(stackID string, tpl []byte) ([]map[string]any, error) {
	resources, err := Resources(tpl)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, map[string]any{
			"id": r.LogicalID,
			"attributes": map[string]any{
				"stack":                 stackID,
				"type":                  r.Type,
				"deletion-policy":       r.DeletionPolicy,
				"update-replace-policy": r.UpdateReplacePolicy,
				"properties":            r.Properties,
			},
		})
	}
	return rows, nil
}

// Summary is a bucket declaration as read back from a template.
type Summary struct {
	LogicalID         string
	Name              string
	Versioned         bool
	RemovalPolicy     bucket.RemovalPolicy
	AutoDeleteObjects bool
}

// Summarize reads the single bucket of a stack template. DeletionPolicy
// Delete maps to destroy; Retain or no policy maps to retain. Auto-delete is
// detected from either its custom resource or the bucket tag the construct
// library adds.
func Summarize(tpl []byte) (Summary, error) {
	all, err := Resources(tpl)
	if err != nil {
		return Summary{}, err
	}

	var (
		buckets    []Resource
		autoDelete bool
	)
	for _, r := range all {
		switch r.Type {
		case TypeBucket:
			buckets = append(buckets, r)
		case TypeAutoDelete:
			autoDelete = true
		}
	}
	if len(buckets) != 1 {
		return Summary{}, fmt.Errorf("%w: found %d", ErrBucketCount, len(buckets))
	}

	b := buckets[0]
	props, _ := json.Marshal(b.Properties)

	s := Summary{
		LogicalID:         b.LogicalID,
		Name:              gjson.GetBytes(props, "BucketName").String(),
		Versioned:         gjson.GetBytes(props, "VersioningConfiguration.Status").String() == "Enabled",
		RemovalPolicy:     bucket.RemovalPolicyRetain,
		AutoDeleteObjects: autoDelete || hasTag(props, TagAutoDelete, "true"),
	}
	if b.DeletionPolicy == "Delete" {
		s.RemovalPolicy = bucket.RemovalPolicyDestroy
	}

	return s, nil
}

func hasTag(props []byte, key, value string) bool {
	for _, tag := range gjson.GetBytes(props, "Tags").Array() {
		if tag.Get("Key").String() == key && tag.Get("Value").String() == value {
			return true
		}
	}
	return false
}
