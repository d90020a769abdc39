package vidkit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

type recordNotifier struct {
	opens    []string
	replaces []string
	closes   int
}

func (r *recordNotifier) Open(title, body string, _ time.Duration) Handle {
	r.opens = append(r.opens, title+"|"+body)
	return Handle(len(r.opens))
}
func (r *recordNotifier) Replace(h Handle, title, body string, _ time.Duration) Handle {
	r.replaces = append(r.replaces, title+"|"+body)
	return h
}
func (r *recordNotifier) Close(Handle) { r.closes++ }

func testKit(rec *recordNotifier) *Kit {
	return &Kit{Conf: Default(), Notify: rec}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		us    int64
		total float64
		want  float64
	}{
		{0, 10, 0},
		{5_000_000, 10, 50},
		{10_000_000, 10, 100},
		{25_000_000, 10, 100}, // clamped
		{1_000_000, 3, 100.0 / 3},
		{1_746_601_000, 1746.601, 100},
	}
	for _, tt := range tests {
		p := newProgress(tt.total)
		pct, update := p.observe(fmt.Sprintf("out_time_ms=%d", tt.us))
		if tt.us == 0 {
			// 0% is what the opening notification already shows.
			if update {
				t.Errorf("observe(0) fired an update")
			}
			continue
		}
		if !update {
			t.Fatalf("observe(%d) did not fire", tt.us)
		}
		if math.Abs(pct-tt.want) > 1e-9 {
			t.Errorf("observe(%d) with total %v: got %v, want %v", tt.us, tt.total, pct, tt.want)
		}
	}
}

func TestProgressSawtooth(t *testing.T) {
	// No known duration: percent cycles and must stay in [0, 100] without
	// ever claiming completion.
	for _, sec := range []float64{0.5, 3.33, 5, 9.5, 10, 12, 105, 99.999} {
		p := newProgress(0)
		pct, update := p.observe(fmt.Sprintf("out_time_ms=%d", int64(sec*1e6)))
		want := math.Min(100, math.Mod(sec, 10)*10)
		if pct < 0 || pct > 100 {
			t.Errorf("sec %v: percent %v out of range", sec, pct)
		}
		if update && math.Abs(pct-want) > 1e-9 {
			t.Errorf("sec %v: got %v, want %v", sec, pct, want)
		}
	}
}

func TestProgressThrottle(t *testing.T) {
	// A full percentage point has to pass before an update fires again.
	p := newProgress(100) // 1 second = 1%
	var fired []float64
	for _, sec := range []float64{0, 0.4, 1.2, 1.9, 3.0} {
		pct, update := p.observe(fmt.Sprintf("out_time_ms=%d", int64(sec*1e6)))
		if update {
			fired = append(fired, pct)
		}
	}
	if len(fired) != 2 || fired[0] != 1.2 || fired[1] != 3.0 {
		t.Errorf("updates fired at %v, want [1.2 3]", fired)
	}

	// Reaching 100 always fires.
	p = newProgress(100)
	p.observe("out_time_ms=99500000")
	pct, update := p.observe("out_time_ms=100000000")
	if !update || pct != 100 {
		t.Errorf("100%% did not fire: %v, %v", pct, update)
	}
}

func TestProgressMalformed(t *testing.T) {
	p := newProgress(10)
	for _, line := range []string{
		"out_time_ms=abc",
		"out_time_ms=",
		"out_time_ms=-50",
		"fps=61.2",
		"total_size=123456",
		"garbage",
	} {
		if pct, update := p.observe(line); update {
			t.Errorf("observe(%q) fired an update (%v)", line, pct)
		}
	}
	if p.last != -0.5 {
		t.Errorf("last changed to %v", p.last)
	}

	// And the session keeps working afterwards.
	pct, update := p.observe("out_time_ms=5000000")
	if !update || pct != 50 {
		t.Errorf("valid line after garbage: got %v, %v", pct, update)
	}
}

func TestInjectProgress(t *testing.T) {
	got := injectProgress([]string{"ffmpeg", "-i", "in.mp4", "out.mp4"})
	want := "ffmpeg -progress pipe:1 -nostats -loglevel error -i in.mp4 out.mp4"
	if strings.Join(got, " ") != want {
		t.Errorf("got %q, want %q", strings.Join(got, " "), want)
	}

	// Already requested: leave the command alone.
	cmd := []string{"ffmpeg", "-progress", "pipe:2", "-i", "in.mp4", "out.mp4"}
	got = injectProgress(cmd)
	if strings.Join(got, " ") != strings.Join(cmd, " ") {
		t.Errorf("modified a command that already has -progress: %q", got)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	rec := new(recordNotifier)
	rc := testKit(rec).Run(context.Background(),
		[]string{"/nonexistent/vidkit-no-such-binary", "-progress"},
		"Task", "file.mp4", 10)
	if rc != 1 {
		t.Fatalf("rc = %d, want 1", rc)
	}
	if len(rec.opens) != 2 {
		t.Fatalf("opens = %v, want initial + failure", rec.opens)
	}
	if !strings.Contains(rec.opens[1], "could not start") {
		t.Errorf("failure notification: %q", rec.opens[1])
	}
	if rec.closes != 1 {
		t.Errorf("closes = %d, want 1", rec.closes)
	}
}

func TestRunExitCode(t *testing.T) {
	rec := new(recordNotifier)
	// The trailing -progress only keeps injectProgress away; sh takes it as $0.
	rc := testKit(rec).Run(context.Background(),
		[]string{"sh", "-c", "exit 2", "-progress"},
		"Task", "file.mp4", 10)
	if rc != 2 {
		t.Fatalf("rc = %d, want 2", rc)
	}
	if len(rec.replaces) != 0 {
		t.Errorf("progress updates for a silent child: %v", rec.replaces)
	}
	if len(rec.opens) != 2 || !strings.Contains(rec.opens[1], "code 2") {
		t.Errorf("opens = %v, want initial + failure naming code 2", rec.opens)
	}
}

func TestRunSuccess(t *testing.T) {
	rec := new(recordNotifier)
	rc := testKit(rec).Run(context.Background(),
		[]string{"sh", "-c", "printf 'out_time_ms=2000000\\nprogress=end\\n'", "-progress"},
		"Task", "file.mp4", 4)
	if rc != 0 {
		t.Fatalf("rc = %d, want 0", rc)
	}
	if len(rec.replaces) != 1 || !strings.Contains(rec.replaces[0], "50.0%") {
		t.Errorf("replaces = %v, want one update at 50.0%%", rec.replaces)
	}
	if len(rec.opens) != 2 || !strings.Contains(rec.opens[1], "Finished") {
		t.Errorf("opens = %v, want initial + finished", rec.opens)
	}
}

func TestRunStopsAtEnd(t *testing.T) {
	rec := new(recordNotifier)
	script := "printf 'out_time_ms=1000000\\nprogress=end\\nout_time_ms=9000000\\n'"
	rc := testKit(rec).Run(context.Background(),
		[]string{"sh", "-c", script, "-progress"},
		"Task", "file.mp4", 10)
	if rc != 0 {
		t.Fatalf("rc = %d, want 0", rc)
	}
	// Only the 10% update; the line after progress=end is never parsed.
	if len(rec.replaces) != 1 || !strings.Contains(rec.replaces[0], "10.0%") {
		t.Errorf("replaces = %v, want only the pre-end update", rec.replaces)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec := new(recordNotifier)
	rc := testKit(rec).Run(ctx,
		[]string{"sh", "-c", "sleep 30", "-progress"},
		"Task", "file.mp4", 10)
	if rc != 130 {
		t.Fatalf("rc = %d, want 130", rc)
	}
}
