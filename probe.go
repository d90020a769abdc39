package vidkit

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"zgo.at/zstd/zbyte"
)

type (
	ProbeFile struct {
		Format  Format  `json:"format"`
		Streams Streams `json:"streams"`
	}
	Streams []Stream
	Format  struct {
		Filename   string `json:"filename,omitempty"`
		NbStreams  uint   `json:"nb_streams,omitempty"`
		FormatName string `json:"format_name,omitempty"` // "matroska,webm"
		Duration   Time   `json:"duration,omitempty"`    // "1746.601000"
		Size       Byte   `json:"size,omitempty"`        // "324196219"
		BitRate    string `json:"bit_rate,omitempty"`
	}
	Stream struct {
		Index         int            `json:"index,omitempty"`
		CodecName     string         `json:"codec_name,omitempty"`      // "hevc"
		CodecLongName string         `json:"codec_long_name,omitempty"` // "H.265 / HEVC …"
		CodecType     string         `json:"codec_type,omitempty"`      // "video"
		Width         uint           `json:"width,omitempty"`
		Height        uint           `json:"height,omitempty"`
		PixFmt        string         `json:"pix_fmt,omitempty"`
		RFrameRate    string         `json:"r_frame_rate,omitempty"` // "60/1"
		SampleRate    string         `json:"sample_rate,omitempty"`  // "48000"
		Channels      uint           `json:"channels,omitempty"`
		Duration      Time           `json:"duration,omitempty"`
		Tags          map[string]any `json:"tags,omitempty"`
	}
)

func (s Stream) Video() bool { return s.CodecType == "video" }
func (s Stream) Audio() bool { return s.CodecType == "audio" }

func (p ProbeFile) String() string {
	b := new(strings.Builder)
	for _, s := range p.Streams {
		var nfo []string
		if s.Width > 0 {
			nfo = append(nfo, fmt.Sprintf("%d×%d", s.Width, s.Height))
		}
		if s.Channels > 0 {
			nfo = append(nfo, fmt.Sprintf("%dch %sHz", s.Channels, s.SampleRate))
		}
		fmt.Fprintf(b, "%-3v %-9s %-13s %-18s %s\n", s.Index, s.CodecType,
			s.CodecName, strings.Join(nfo, ", "), s.CodecLongName)
	}
	if b.Len() > 0 {
		return b.String()[:b.Len()-1]
	}
	return ""
}

// Probe gets an overview of the streams in this file.
func Probe(ctx context.Context, file string) (ProbeFile, error) {
	out, err := exec.CommandContext(ctx, "ffprobe", "-hide_banner", "-v", "quiet",
		"-of", "json=compact=1",
		"-show_error", "-show_format", "-show_streams",
		file).CombinedOutput()
	if err != nil {
		var outj struct {
			Error struct {
				Code   int    `json:"code"`
				String string `json:"string"`
			} `json:"error"`
		}
		if errj := json.Unmarshal(out, &outj); errj == nil {
			return ProbeFile{}, fmt.Errorf("vidkit.Probe: %w: %s (code %d)", err, outj.Error.String, outj.Error.Code)
		}
		return ProbeFile{}, fmt.Errorf("vidkit.Probe: %w: %s", err, zbyte.ElideLeft(out, 500))
	}

	var p ProbeFile
	err = json.Unmarshal(out, &p)
	if err != nil {
		return ProbeFile{}, fmt.Errorf("vidkit.Probe: %w", err)
	}
	return p, nil
}

// Duration reports the duration of file in seconds, or 0 if it can't be
// determined. It's only ever an input to progress math, so failure here must
// not stop anything.
func Duration(ctx context.Context, file string) float64 {
	p, err := Probe(ctx, file)
	if err != nil {
		return 0
	}
	return p.Format.Duration.Seconds()
}
