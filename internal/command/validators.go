// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/product"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// GlobalFlagsValidator checks flags that only make sense together.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.IsSet("offset") && c.Int("offset") < 0 {
		return errors.New("--offset must not be negative")
	}
	if c.IsSet("height") && c.Int("height") < 1 {
		return errors.New("--height must be at least 1")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml"}
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// StatusValidator accepts an empty value or a warranty status name.
func StatusValidator(value any) error {
	s := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := warranty.ParseStatus(s); !ok {
		return fmt.Errorf("must be one of %v", warranty.Statuses)
	}
	return nil
}

// DateValidator accepts a YYYY-MM-DD date.
func DateValidator(value any) error {
	if _, err := product.ParseDate(value.(string)); err != nil {
		return fmt.Errorf("must be a date like 2025-01-31")
	}
	return nil
}

// RefArgValidator requires at least one product reference argument.
func RefArgValidator(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("a product reference is required, see %s --help", c.Name)
	}
	return nil
}
