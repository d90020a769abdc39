package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"zgo.at/vidkit"
	"zgo.at/zli"
)

var errCancelled = errors.New("cancelled")

func cmdTrim(ctx context.Context, kit *vidkit.Kit, input, startStr, endStr string, interactive bool) error {
	if !exists(input) {
		return fmt.Errorf("input file not found: %q", input)
	}

	if interactive {
		var err error
		startStr, endStr, err = promptTimes(startStr, endStr)
		if errors.Is(err, errCancelled) {
			fmt.Println("Cancelled by user.")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if startStr == "" || endStr == "" {
		zli.Fatalf("need -start and -end (or -interactive)")
	}

	start, err := vidkit.ParseTime(startStr)
	if err != nil {
		return err
	}
	end, err := vidkit.ParseTime(endStr)
	if err != nil {
		return err
	}

	out, err := kit.Trim(ctx, input, start, end)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func promptTimes(start, end string) (string, string, error) {
	if start == "" {
		start = "0"
	}
	start, err := rofiPrompt("Start (e.g. 12.5 or 00:00:12.5)", start)
	if err != nil {
		return "", "", err
	}
	end, err = rofiPrompt("End (seconds or HH:MM:SS(.sss))", end)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// rofiPrompt asks for a single value with a rofi dmenu prompt. A dismissed
// prompt or empty input counts as cancelled.
func rofiPrompt(label, initial string) (string, error) {
	if _, err := exec.LookPath("rofi"); err != nil {
		return "", errors.New("-interactive requires rofi in PATH")
	}
	out, err := exec.Command("rofi", "-dmenu", "-p", label, "-filter", initial).Output()
	if err != nil {
		return "", errCancelled
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "", errCancelled
	}
	return v, nil
}
