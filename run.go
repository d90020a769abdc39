package vidkit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Exit codes Run synthesizes for failures outside the child process itself.
const (
	exitLaunch    = 1   // executable missing or could not be started
	exitCancelled = 130 // context cancelled, child killed
)

// ExitError reports a non-zero exit status from an external command, keeping
// the real code so callers and scripts can branch on it.
type ExitError struct {
	Cmd  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// Run executes cmd to completion, translating ffmpeg's machine-readable
// progress stream into throttled notifications. task and label are display
// strings; total is the expected output duration in seconds, with 0 meaning
// unknown. It returns the child's exit code, 1 if the child could not be
// started, or 130 if ctx was cancelled.
//
// Unless cmd already asks for progress reporting, "-progress pipe:1" (plus
// flags muting the regular stats spam) is inserted after the executable.
func (k *Kit) Run(ctx context.Context, cmd []string, task, label string, total float64) int {
	cmd = injectProgress(cmd)
	if k.Verbose {
		printCmd(cmd)
	}

	h := k.Notify.Open(task, label+"\n0.0%", 0)
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	stdout, err := c.StdoutPipe()
	if err == nil {
		c.Stderr = c.Stdout
		err = c.Start()
	}
	if err != nil {
		k.Notify.Close(h)
		k.Notify.Open(task, fmt.Sprintf("Error: could not start %s: %s", cmd[0], err), 4*time.Second)
		fmt.Fprintf(os.Stderr, "vidkit: could not start %s: %s\n", cmd[0], err)
		return exitLaunch
	}

	p := newProgress(total)
	scan := bufio.NewScanner(stdout)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "progress=end") {
			break
		}
		if pct, update := p.observe(line); update {
			h = k.Notify.Replace(h, task, fmt.Sprintf("%s\n%.1f%%", label, pct), 0)
		}
	}

	rc := 0
	if err := c.Wait(); err != nil {
		var ee *exec.ExitError
		switch {
		case ctx.Err() != nil:
			rc = exitCancelled
		case errors.As(err, &ee):
			rc = ee.ExitCode()
		default:
			rc = exitLaunch
		}
	}

	k.Notify.Close(h)
	if rc == 0 {
		k.Notify.Open(task, "Finished:\n"+label, 2*time.Second)
	} else {
		k.Notify.Open(task, fmt.Sprintf("%s exited with code %d.", cmd[0], rc), 4*time.Second)
		fmt.Fprintf(os.Stderr, "vidkit: %s exited with code %d\n", cmd[0], rc)
	}
	return rc
}

// progress is the per-invocation parser state for one monitored command.
type progress struct {
	total float64 // expected duration in seconds; 0 = unknown
	last  float64 // last reported percentage; starts below 0
}

// The opening notification already shows 0%, so a first sample at exactly 0
// shouldn't refire; anything from the first whole point onwards should.
func newProgress(total float64) progress {
	return progress{total: total, last: -0.5}
}

// observe parses one progress line and reports whether the percentage moved
// enough to show. Lines other than out_time_ms, and out_time_ms lines with a
// mangled number, are ignored; a corrupt line must never kill the run.
func (p *progress) observe(line string) (float64, bool) {
	v, ok := strings.CutPrefix(line, "out_time_ms=")
	if !ok {
		return 0, false
	}
	us, err := strconv.ParseInt(v, 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}

	// Despite the name, out_time_ms is in microseconds.
	sec := float64(us) / 1e6
	var pct float64
	if p.total > 0 {
		pct = math.Min(100, sec/p.total*100)
	} else {
		// No known duration; cycle 0→100 so the notification at least shows
		// the encoder is alive.
		pct = math.Min(100, math.Mod(sec, 10)*10)
	}

	if pct-p.last >= 1 || pct >= 100 {
		p.last = pct
		return pct, true
	}
	return 0, false
}

// injectProgress asks for the structured progress stream on stdout, unless
// the caller already set up progress reporting themselves.
func injectProgress(cmd []string) []string {
	if slices.Contains(cmd, "-progress") {
		return cmd
	}
	out := make([]string, 0, len(cmd)+5)
	out = append(out, cmd[0], "-progress", "pipe:1", "-nostats", "-loglevel", "error")
	return append(out, cmd[1:]...)
}
