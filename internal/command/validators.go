// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/output"
	"github.com/tfctl/snapdiff/internal/schema"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks combinations that no single flag validator can
// see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Int("padding") < 0 {
		return errors.New("--padding must not be negative")
	}
	if c.Int("workers") < 0 {
		return errors.New("--workers must not be negative")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func ModeValidator(value any) error {
	_, err := differ.ParseMode(value.(string))
	return err
}

func KeyTypeValidator(value any) error {
	switch schema.FieldType(value.(string)) {
	case "", schema.TypeInt, schema.TypeString:
		return nil
	}
	return fmt.Errorf("must be one of [%s %s]", schema.TypeInt, schema.TypeString)
}

func FormatValidator(value any) error {
	switch value.(string) {
	case "", "csv", "json":
		return nil
	}
	return errors.New("must be one of [csv json]")
}

func DelimiterValidator(value any) error {
	if utf8.RuneCountInString(value.(string)) != 1 {
		return errors.New("must be a single character")
	}
	return nil
}
