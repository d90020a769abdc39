package vidkit

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the encoding knobs; every value has a usable default, so an
// absent config file is fine.
type Config struct {
	FPS           int `toml:"fps"`            // frame rate forced by fade/utvideo output
	YouTubeHeight int `toml:"youtube-height"` // scale target for the youtube command

	VHS VHSConfig `toml:"vhs"`
}

// VHSConfig are the audio parameters for the VHS effect; the video side is a
// fixed filter chain.
type VHSConfig struct {
	SampleRate int     `toml:"sample-rate"`
	BitDepth   int     `toml:"bit-depth"`
	Channels   int     `toml:"channels"`
	LowPass    int     `toml:"low-pass"`  // cut-off in Hz, mimics tape frequency response
	NoiseDB    float64 `toml:"noise-db"`  // synth level of the generated brown noise
	NoiseMix   float64 `toml:"noise-mix"` // noise volume when mixed with the original audio
}

func Default() Config {
	return Config{
		FPS:           60,
		YouTubeHeight: 2160,
		VHS: VHSConfig{
			SampleRate: 48000,
			BitDepth:   32,
			Channels:   2,
			LowPass:    4000,
			NoiseDB:    -22.75,
			NoiseMix:   0.077,
		},
	}
}

// Load reads a TOML config file on top of the defaults. An empty path, or a
// missing file at the default location, just gives the defaults.
func Load(path string) (Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, fmt.Errorf("vidkit.Load: %w", err)
	}
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, fmt.Errorf("vidkit.Load: %w", err)
	}
	if u := meta.Undecoded(); len(u) > 0 {
		return conf, fmt.Errorf("vidkit.Load: unknown key %q in %s", u[0].String(), path)
	}
	return conf, nil
}
