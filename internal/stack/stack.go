// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/log"
)

// HelloCdkStackProps carries the stack props and the bucket to declare.
type HelloCdkStackProps struct {
	awscdk.StackProps
	Bucket bucket.Declaration
}

// NewHelloCdkStack registers one stack holding exactly one bucket. The
// declaration is validated first so mistakes come back as errors instead of
// jsii panics.
func NewHelloCdkStack(scope constructs.Construct, id string, props *HelloCdkStackProps) (awscdk.Stack, error) {
	if props == nil {
		return nil, fmt.Errorf("stack %s: missing props", id)
	}
	if err := props.Bucket.Validate(); err != nil {
		return nil, fmt.Errorf("stack %s: %w", id, err)
	}

	sprops := props.StackProps
	if sprops.Description == nil && props.Bucket.Description != "" {
		sprops.Description = jsii.String(props.Bucket.Description)
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	awss3.NewBucket(stack, jsii.String(props.Bucket.ConstructID()), BucketProps(props.Bucket))
	log.Debugf("stack declared: stack=%s bucket=%s", id, props.Bucket.Name)

	return stack, nil
}

// BucketProps maps a declaration onto awss3.BucketProps. Unset options are
// left nil so the construct library applies its own defaults.
func BucketProps(d bucket.Declaration) *awss3.BucketProps {
	props := &awss3.BucketProps{
		BucketName: jsii.String(d.Name),
		Versioned:  jsii.Bool(d.Versioned),
	}

	switch d.RemovalPolicy {
	case bucket.RemovalPolicyDestroy:
		props.RemovalPolicy = awscdk.RemovalPolicy_DESTROY
	case bucket.RemovalPolicyRetain:
		props.RemovalPolicy = awscdk.RemovalPolicy_RETAIN
	}

	if d.AutoDeleteObjects {
		props.AutoDeleteObjects = jsii.Bool(true)
	}

	return props
}
