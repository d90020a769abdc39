package main

import (
	"context"
	"fmt"

	"zgo.at/vidkit"
	"zgo.at/zli"
)

func cmdFade(ctx context.Context, kit *vidkit.Kit, input, output, inStr, outStr, bothStr string) error {
	if !exists(input) {
		return fmt.Errorf("input file not found: %q", input)
	}

	var fadeIn, fadeOut float64
	if bothStr != "" {
		d, err := fadeDur("-fade", bothStr)
		if err != nil {
			return err
		}
		fadeIn, fadeOut = d, d
	} else {
		var err error
		if inStr != "" {
			fadeIn, err = fadeDur("-in", inStr)
			if err != nil {
				return err
			}
		}
		if outStr != "" {
			fadeOut, err = fadeDur("-out", outStr)
			if err != nil {
				return err
			}
		}
	}
	if fadeIn == 0 && fadeOut == 0 {
		zli.Fatalf("need at least one of -fade, -in, or -out")
	}

	out, err := kit.Fade(ctx, input, output, fadeIn, fadeOut)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func fadeDur(name, val string) (float64, error) {
	t, err := vidkit.ParseTime(val)
	if err != nil {
		return 0, err
	}
	if t.Seconds() <= 0 {
		return 0, fmt.Errorf("%s must be > 0 (got %s)", name, val)
	}
	return t.Seconds(), nil
}
