// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bucket

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	ErrInvalidName               = errors.New("invalid bucket name")
	ErrInvalidRemovalPolicy      = errors.New("invalid removal policy")
	ErrAutoDeleteRequiresDestroy = errors.New("auto_delete_objects requires removal_policy destroy")
	ErrMissingStackID            = errors.New("missing stack id")
)

const (
	minNameLen      = 3
	maxNameLen      = 63
	forbiddenPrefix = "xn--"
	forbiddenSuffix = "-s3alias"
)

var nameChars = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)

// RemovalPolicy is the teardown rule for the bucket. The zero value leaves the
// choice to the provider, which retains buckets.
type RemovalPolicy string

const (
	RemovalPolicyUnset   RemovalPolicy = ""
	RemovalPolicyRetain  RemovalPolicy = "retain"
	RemovalPolicyDestroy RemovalPolicy = "destroy"
)

// ParseRemovalPolicy accepts retain, destroy or empty, case-insensitively.
func ParseRemovalPolicy(s string) (RemovalPolicy, error) {
	switch rp := RemovalPolicy(strings.ToLower(strings.TrimSpace(s))); rp {
	case RemovalPolicyUnset, RemovalPolicyRetain, RemovalPolicyDestroy:
		return rp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRemovalPolicy, s)
	}
}

// Effective returns the policy the provider will apply.
func (rp RemovalPolicy) Effective() RemovalPolicy {
	if rp == RemovalPolicyUnset {
		return RemovalPolicyRetain
	}
	return rp
}

// String renders unset as "default" so tables never show an empty cell.
func (rp RemovalPolicy) String() string {
	if rp == RemovalPolicyUnset {
		return "default"
	}
	return string(rp)
}

// Declaration is one stack's bucket. ID is the construct id and falls back to
// Name, which is how the stacks have always been written.
type Declaration struct {
	StackID           string
	Description       string
	ID                string
	Name              string
	Versioned         bool
	RemovalPolicy     RemovalPolicy
	AutoDeleteObjects bool
}

// ConstructID returns the construct id to register the bucket under.
func (d Declaration) ConstructID() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// Validate checks what the provider would otherwise reject at synth or deploy
// time. It does not check global name uniqueness.
func (d Declaration) Validate() error {
	if d.StackID == "" {
		return ErrMissingStackID
	}
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if _, err := ParseRemovalPolicy(string(d.RemovalPolicy)); err != nil {
		return err
	}
	if d.AutoDeleteObjects && d.RemovalPolicy != RemovalPolicyDestroy {
		return fmt.Errorf("%s: %w", d.Name, ErrAutoDeleteRequiresDestroy)
	}
	return nil
}

// ValidateName applies the S3 general purpose bucket naming rules.
func ValidateName(name string) error {
	switch {
	case len(name) < minNameLen || len(name) > maxNameLen:
		return fmt.Errorf("%w: %q must be %d-%d characters", ErrInvalidName, name, minNameLen, maxNameLen)
	case !nameChars.MatchString(name):
		return fmt.Errorf("%w: %q may only contain lowercase letters, digits, dots and hyphens", ErrInvalidName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q has adjacent periods", ErrInvalidName, name)
	case net.ParseIP(name) != nil:
		return fmt.Errorf("%w: %q is formatted as an IP address", ErrInvalidName, name)
	case strings.HasPrefix(name, forbiddenPrefix):
		return fmt.Errorf("%w: %q starts with %s", ErrInvalidName, name, forbiddenPrefix)
	case strings.HasSuffix(name, forbiddenSuffix):
		return fmt.Errorf("%w: %q ends with %s", ErrInvalidName, name, forbiddenSuffix)
	}
	return nil
}
