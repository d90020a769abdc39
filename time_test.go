package vidkit

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0", 0},
		{"90", 90 * time.Second},
		{"5.25", 5*time.Second + 250*time.Millisecond},
		{"01:30", 90 * time.Second},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"00:00:12.5", 12*time.Second + 500*time.Millisecond},
		{" 12 ", 12 * time.Second},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Fatalf("ParseTime(%q): %s", tt.in, err)
		}
		if got.Duration != tt.want {
			t.Errorf("ParseTime(%q) = %s, want %s", tt.in, got.Duration, tt.want)
		}
	}

	for _, in := range []string{"", "1:2:3:4", "abc", "1:xx", "12..5"} {
		if _, err := ParseTime(in); err == nil {
			t.Errorf("ParseTime(%q) did not error", in)
		}
	}
}

func TestTimeString(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{90 * time.Second, "00:01:30.000"},
		{time.Hour + 2*time.Minute + 3*time.Second + 250*time.Millisecond, "01:02:03.250"},
		{-5 * time.Second, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := (Time{tt.in}).String(); got != tt.want {
			t.Errorf("Time(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeUnmarshalText(t *testing.T) {
	var tm Time
	if err := tm.UnmarshalText([]byte("1746.601000")); err != nil {
		t.Fatal(err)
	}
	if got := tm.String(); got != "00:29:06.601" {
		t.Errorf("got %q", got)
	}

	if err := tm.UnmarshalText([]byte("nope")); err == nil {
		t.Error("no error for garbage")
	}
}
