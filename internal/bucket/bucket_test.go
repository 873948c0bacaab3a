// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package bucket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants(t *testing.T) {
	a, b := VariantA(), VariantB()

	assert.True(t, a.Versioned)
	assert.True(t, b.Versioned)

	assert.Equal(t, "my-first-bucket-test111", a.Name)
	assert.Equal(t, "my-first-bucket-test112", b.Name)
	assert.NotEqual(t, a.Name, b.Name)

	assert.Equal(t, RemovalPolicyDestroy, a.RemovalPolicy)
	assert.True(t, a.AutoDeleteObjects)

	assert.Equal(t, RemovalPolicyUnset, b.RemovalPolicy)
	assert.False(t, b.AutoDeleteObjects)
	assert.Equal(t, RemovalPolicyRetain, b.RemovalPolicy.Effective())

	for _, d := range Builtin() {
		assert.NoError(t, d.Validate(), d.StackID)
		assert.Equal(t, d.Name, d.ConstructID(), "construct id defaults to the bucket name")
	}
}

func TestParseRemovalPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    RemovalPolicy
		wantErr bool
	}{
		{"", RemovalPolicyUnset, false},
		{"retain", RemovalPolicyRetain, false},
		{"DESTROY", RemovalPolicyDestroy, false},
		{"  Destroy ", RemovalPolicyDestroy, false},
		{"snapshot", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRemovalPolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRemovalPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemovalPolicy_String(t *testing.T) {
	assert.Equal(t, "default", RemovalPolicyUnset.String())
	assert.Equal(t, "destroy", RemovalPolicyDestroy.String())
	assert.Equal(t, RemovalPolicyDestroy, RemovalPolicyDestroy.Effective())
}

func TestDeclaration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Declaration)
		wantErr error
	}{
		{"variant a", func(*Declaration) {}, nil},
		{"missing stack", func(d *Declaration) { d.StackID = "" }, ErrMissingStackID},
		{"auto-delete with retain", func(d *Declaration) { d.RemovalPolicy = RemovalPolicyRetain }, ErrAutoDeleteRequiresDestroy},
		{"auto-delete with default", func(d *Declaration) { d.RemovalPolicy = RemovalPolicyUnset }, ErrAutoDeleteRequiresDestroy},
		{"bad policy", func(d *Declaration) { d.RemovalPolicy = "snapshot" }, ErrInvalidRemovalPolicy},
		{"bad name", func(d *Declaration) { d.Name = "My_Bucket" }, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := VariantA()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"my-first-bucket-test111", true},
		{"a.b.c", true},
		{"abc", true},
		{"ab", false},
		{strings.Repeat("a", 64), false},
		{"Upper", false},
		{"under_score", false},
		{"-leading", false},
		{"trailing-", false},
		{"double..dot", false},
		{"192.168.5.4", false},
		{"xn--bucket", false},
		{"bucket-s3alias", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestRows(t *testing.T) {
	rows := Rows(Builtin())
	require.Len(t, rows, 2)

	assert.Equal(t, "my-first-bucket-test111", rows[0].ID)
	assert.Equal(t, VariantAStackID, rows[0].StackID)
	assert.Equal(t, "destroy", rows[0].RemovalPolicy)
	assert.True(t, rows[0].AutoDeleteObjects)

	assert.Equal(t, "default", rows[1].RemovalPolicy)
	assert.Equal(t, "retain", rows[1].EffectivePolicy)
	assert.False(t, rows[1].AutoDeleteObjects)
}
