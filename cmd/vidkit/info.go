package main

import (
	"context"
	"fmt"
	"strings"

	"zgo.at/vidkit"
	"zgo.at/zli"
	"zgo.at/zstd/zmap"
)

func cmdInfo(ctx context.Context, files ...string) error {
	multi := len(files) > 1

	for i, file := range files {
		info, err := vidkit.Probe(ctx, file)
		if !multi && err != nil { /// For multi print the errors below path and continue
			return err
		}
		if multi && i > 0 {
			fmt.Println()
		}
		zli.Colorf(file, zli.Bold)
		fmt.Printf(" (%s, %s)\n", info.Format.Duration, info.Format.Size)

		if err != nil {
			zli.Errorf(err)
		}
		if multi {
			fmt.Println("\t" + strings.ReplaceAll(info.String(), "\n", "\n\t"))
		} else {
			fmt.Println(info)
		}

		for _, s := range info.Streams {
			tags := make(map[string]string, len(s.Tags))
			for k, v := range s.Tags {
				if vs, ok := v.(string); ok && vs != "" {
					tags[k] = vs
				}
			}
			if len(tags) == 0 {
				continue
			}
			fmt.Printf("Stream %d tags:\n", s.Index)
			for _, k := range zmap.KeysOrdered(tags) {
				fmt.Printf("    %s = %s\n", k, tags[k])
			}
		}
	}
	return nil
}
