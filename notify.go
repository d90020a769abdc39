package vidkit

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"
)

// Handle identifies a notification so it can be replaced or closed later.
type Handle int

// NoHandle is returned when no notification could be created; Replace and
// Close accept it as a no-op.
const NoHandle Handle = 0

// Notifier shows desktop notifications. All methods must be safe to call when
// no notification daemon is running: failures are absorbed, never returned.
type Notifier interface {
	// Open creates a new notification; timeout 0 means it stays until closed.
	Open(title, body string, timeout time.Duration) Handle

	// Replace updates the notification at h, returning the (possibly new)
	// handle. With NoHandle it behaves like Open.
	Replace(h Handle, title, body string, timeout time.Duration) Handle

	Close(h Handle)
}

// NewNotifier returns a dunstify-backed Notifier if dunstify is in PATH, and
// otherwise one that just writes lines to w.
func NewNotifier(w io.Writer) Notifier {
	if _, err := exec.LookPath("dunstify"); err != nil {
		return writeNotifier{w}
	}
	return dunst{}
}

type dunst struct{}

func (dunst) Open(title, body string, timeout time.Duration) Handle {
	return dunstSend(NoHandle, title, body, timeout)
}

func (dunst) Replace(h Handle, title, body string, timeout time.Duration) Handle {
	return dunstSend(h, title, body, timeout)
}

func (dunst) Close(h Handle) {
	if h == NoHandle {
		return
	}
	exec.Command("dunstify", "-C", strconv.Itoa(int(h))).Run()
}

// dunstSend runs "dunstify -p", which prints the id of the new notification.
// On any failure the previous handle is returned so the caller can keep using
// it; a flaky daemon should never break the operation it reports on.
func dunstSend(replace Handle, title, body string, timeout time.Duration) Handle {
	args := []string{"-p", "-t", strconv.Itoa(int(timeout.Milliseconds()))}
	if replace != NoHandle {
		args = append(args, "-r", strconv.Itoa(int(replace)))
	}
	args = append(args, title, body)

	out, err := exec.Command("dunstify", args...).Output()
	if err != nil {
		return replace
	}
	id, err := strconv.Atoi(string(bytes.TrimSpace(out)))
	if err != nil {
		return replace
	}
	return Handle(id)
}

// writeNotifier degrades notifications to log lines.
type writeNotifier struct{ w io.Writer }

func (n writeNotifier) Open(title, body string, _ time.Duration) Handle {
	fmt.Fprintf(n.w, "[notify] %s: %s\n", title, oneLine(body))
	return NoHandle
}

func (n writeNotifier) Replace(_ Handle, title, body string, _ time.Duration) Handle {
	fmt.Fprintf(n.w, "[notify] %s: %s\n", title, oneLine(body))
	return NoHandle
}

func (writeNotifier) Close(Handle) {}

func oneLine(s string) string {
	return string(bytes.ReplaceAll([]byte(s), []byte{'\n'}, []byte{' '}))
}
