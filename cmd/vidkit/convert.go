package main

import (
	"context"
	"fmt"

	"zgo.at/vidkit"
)

func cmdVHS(ctx context.Context, kit *vidkit.Kit, input string) error {
	if !exists(input) {
		return fmt.Errorf("input file not found: %q", input)
	}
	out, err := kit.VHS(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// cmdConvert handles the single-input conversions (utvideo, youtube, audio).
func cmdConvert(ctx context.Context, op func(context.Context, string) (string, error), input string) error {
	if !exists(input) {
		return fmt.Errorf("input file not found: %q", input)
	}
	out, err := op(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
