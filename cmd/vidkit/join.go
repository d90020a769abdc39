package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"zgo.at/vidkit"
)

func cmdJoin(ctx context.Context, kit *vidkit.Kit, force bool, input ...string) error {
	if !force {
		same, formats, err := vidkit.Compatible(ctx, input...)
		if err != nil {
			return err
		}
		if !same {
			fmt.Println("Formats not identical:")
			for i := range formats {
				fmt.Println("  " + filepath.Base(input[i]) + "\n    " +
					strings.ReplaceAll(formats[i], "\n", "\n    "))
			}
			fmt.Println("\nEdit files to make the streams compatible (if possible), or use -f to force.")
			return nil
		}
	}

	out, err := kit.Join(ctx, input...)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
