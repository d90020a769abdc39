package vidkit

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"zgo.at/zstd/zfilepath"
)

// vhsFilter degrades the image like a worn VHS tape: split into Y/U/V planes,
// scale the chroma planes down and back up for colour bleed, desaturate, add
// noise, and jitter scanline groups horizontally.
const vhsFilter = "format=yuv420p, split=3 [a][b][c]; " +
	"[a] extractplanes=y [y]; " +
	"[b] extractplanes=u [u]; " +
	"[c] extractplanes=v [v]; " +
	"[y] scale=768:1080, scale=1920:1080 [luma_scaled]; " +
	"[u] scale=120:540, scale=960:540 [u_scaled]; " +
	"[v] scale=120:540, scale=960:540 [v_scaled]; " +
	"[luma_scaled][u_scaled][v_scaled] mergeplanes=0x001020:yuv420p [merged]; " +
	"[merged] eq=saturation=0.75, noise=alls=5:allf=t, " +
	"geq='lum(X+5.5*(random(floor(Y/96))-0.5),Y)':cb='cb(X,Y)':cr='cr(X,Y)' [outv]"

// VHS applies the VHS look to both video and audio, writing the result as
// "<name>.avi" next to the input. It runs in three steps: the video filter
// (which also extracts the original audio), sox processing of the audio, and
// a stream-copy mux. Scratch files live next to the input and are removed on
// every path.
func (k *Kit) VHS(ctx context.Context, input string) (string, error) {
	dir := filepath.Dir(input)
	var (
		vhsVideo = filepath.Join(dir, "vhs.avi")   // filtered video, no audio
		origWav  = filepath.Join(dir, "audio.wav") // extracted original audio
		noiseWav = filepath.Join(dir, "noise.wav")
		mixWav   = filepath.Join(dir, "mix.wav")
		vhsWav   = filepath.Join(dir, "vhs.wav") // processed audio
	)
	defer func() {
		for _, f := range []string{vhsVideo, origWav, noiseWav, mixWav, vhsWav} {
			os.Remove(f)
		}
	}()

	total := Duration(ctx, input)

	// Step 0: filter the video, splitting off the original audio as wav.
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-i", input,
		"-filter_complex", vhsFilter,
		"-c:v", "utvideo",
		"-pix_fmt", "yuv420p",
		"-colorspace", "bt709",
		"-color_primaries", "bt709",
		"-color_trc", "bt709",
		"-map", "[outv]",
		vhsVideo,
		"-map", "a",
		"-c:a", "pcm_f32le",
		origWav},
		"VHS video", filepath.Base(input), total)
	if rc != 0 {
		return "", exited("ffmpeg", rc)
	}

	// Step 1: brown noise, mixed under the original audio, then a low-pass
	// to mimic tape frequency response. sox has no progress stream, so this
	// only gets a single notification around the whole step.
	err := k.vhsAudio(ctx, input, total, origWav, noiseWav, mixWav, vhsWav)
	if err != nil {
		return "", fmt.Errorf("vidkit.VHS: %w", err)
	}

	// Step 2: mux the filtered video with the processed audio.
	output := filepath.Join(dir, vhsName(input))
	rc = k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-i", vhsVideo,
		"-i", vhsWav,
		"-map", "0:v",
		"-map", "1:a",
		"-c", "copy",
		output},
		"VHS muxing", filepath.Base(output), Duration(ctx, vhsVideo))
	if rc != 0 {
		return "", exited("ffmpeg", rc)
	}
	return output, nil
}

func (k *Kit) vhsAudio(ctx context.Context, input string, total float64, origWav, noiseWav, mixWav, vhsWav string) error {
	h := k.Notify.Open("VHS audio", "Processing audio for:\n"+filepath.Base(input), 0)
	defer k.Notify.Close(h)

	c := k.Conf.VHS
	err := k.runTool(ctx, "sox",
		"-n",
		"-r", strconv.Itoa(c.SampleRate),
		"-b", strconv.Itoa(c.BitDepth),
		"-e", "floating-point",
		"-c", strconv.Itoa(c.Channels),
		noiseWav,
		"synth", fmt.Sprintf("%f", total), "brownnoise",
		"vol", strconv.FormatFloat(math.Pow(10, c.NoiseDB/20), 'f', -1, 64))
	if err != nil {
		return err
	}

	err = k.runTool(ctx, "sox",
		"-m",
		"-v", "1.0", origWav,
		"-v", strconv.FormatFloat(c.NoiseMix, 'f', -1, 64), noiseWav,
		mixWav)
	if err != nil {
		return err
	}

	err = k.runTool(ctx, "sox", mixWav, vhsWav, "lowpass", strconv.Itoa(c.LowPass))
	if err != nil {
		return err
	}

	k.Notify.Open("VHS audio", "Audio processing complete:\n"+filepath.Base(input), 2*time.Second)
	return nil
}

// vhsName is the output filename, with characters some players and shares
// choke on replaced.
func vhsName(input string) string {
	base, _ := zfilepath.SplitExt(filepath.Base(input))
	for _, ch := range `:*?"<>|` {
		base = strings.ReplaceAll(base, string(ch), "-")
	}
	return base + ".avi"
}
