// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/attrs"
)

var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects an unparseable --attrs spec before any work
// is done.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	var al attrs.AttrList
	if err := al.Set(c.String("attrs")); err != nil {
		return fmt.Errorf("invalid --attrs: %w", err)
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func PaddingValidator(value any) error {
	n, ok := value.(int)
	if !ok || n < 0 || n > 16 {
		return fmt.Errorf("must be between 0 and 16")
	}
	return nil
}
