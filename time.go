package vidkit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time is a timestamp or duration within a media file.
type Time struct{ time.Duration }

// ParseTime parses "SS", "SS.sss", "MM:SS", or "HH:MM:SS", with an optional
// fractional part on the last component.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, fmt.Errorf("empty time")
	}
	sp := strings.Split(s, ":")
	if len(sp) > 3 {
		return Time{}, fmt.Errorf("invalid time: %q", s)
	}

	var sub time.Duration
	if i := strings.IndexByte(sp[len(sp)-1], '.'); i > -1 {
		var frac string
		sp[len(sp)-1], frac, _ = strings.Cut(sp[len(sp)-1], ".")
		d, err := time.ParseDuration("0." + frac + "s")
		if err != nil {
			return Time{}, fmt.Errorf("invalid time: %q: %w", s, err)
		}
		sub = d
	}

	n := make([]int, len(sp))
	for i := range sp {
		x, err := strconv.Atoi(sp[i])
		if err != nil {
			return Time{}, fmt.Errorf("invalid time: %q: %w", s, err)
		}
		n[i] = x
	}
	switch len(n) {
	case 1:
		return Time{sub + time.Duration(n[0])*time.Second}, nil
	case 2:
		return Time{sub + time.Duration(n[0])*time.Minute + time.Duration(n[1])*time.Second}, nil
	default:
		return Time{sub + time.Duration(n[0])*time.Hour + time.Duration(n[1])*time.Minute +
			time.Duration(n[2])*time.Second}, nil
	}
}

// String formats as "HH:MM:SS.mmm", which ffmpeg accepts everywhere a time is
// expected.
func (t Time) String() string {
	s := t.Duration
	if s < 0 {
		s = 0
	}
	h := s / time.Hour
	m := (s % time.Hour) / time.Minute
	sec := float64(s%time.Minute) / float64(time.Second)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, sec)
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses the float seconds ffprobe reports in its JSON output.
func (t *Time) UnmarshalText(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	t.Duration = time.Duration(f * float64(time.Second))
	return nil
}
