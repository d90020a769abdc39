package vidkit

import (
	"strings"
	"testing"
)

func TestWriteNotifier(t *testing.T) {
	b := new(strings.Builder)
	n := writeNotifier{b}

	h := n.Open("Video cut", "Cutting:\nfile.mp4\n0.0%", 0)
	if h != NoHandle {
		t.Errorf("handle = %v, want NoHandle", h)
	}
	n.Replace(h, "Video cut", "file.mp4\n50.0%", 0)
	n.Close(h)

	want := "[notify] Video cut: Cutting: file.mp4 0.0%\n" +
		"[notify] Video cut: file.mp4 50.0%\n"
	if b.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", b.String(), want)
	}
}
