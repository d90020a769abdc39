package vidkit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.FPS != 60 || conf.YouTubeHeight != 2160 {
		t.Errorf("unexpected defaults: %+v", conf)
	}
	if conf.VHS.SampleRate != 48000 || conf.VHS.LowPass != 4000 {
		t.Errorf("unexpected VHS defaults: %+v", conf.VHS)
	}
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(p, []byte("fps = 30\n\n[vhs]\nlow-pass = 8000\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	conf, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if conf.FPS != 30 {
		t.Errorf("fps = %d, want 30", conf.FPS)
	}
	if conf.VHS.LowPass != 8000 {
		t.Errorf("low-pass = %d, want 8000", conf.VHS.LowPass)
	}
	// Unset keys keep their defaults.
	if conf.VHS.SampleRate != 48000 {
		t.Errorf("sample-rate = %d, want 48000", conf.VHS.SampleRate)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("no error for missing file")
	}

	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte("frames-per-second = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Error("no error for unknown key")
	}
}
