// Package vidkit is a small toolkit of video-editing commands built on
// ffmpeg, ffprobe, and sox, with progress reported as desktop notifications.
package vidkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"zgo.at/zstd/zbyte"
	"zgo.at/zstd/zfilepath"
)

// Kit runs the toolkit's operations. Construct one per top-level invocation
// and pass it around explicitly.
type Kit struct {
	Conf    Config
	Notify  Notifier
	Verbose bool // print external command lines to stderr
}

func New(conf Config) *Kit {
	return &Kit{Conf: conf, Notify: NewNotifier(os.Stderr)}
}

// Trim cuts the segment from start to end without re-encoding, writing to a
// timestamped file next to the input.
func (k *Kit) Trim(ctx context.Context, input string, start, end Time) (string, error) {
	if end.Duration <= start.Duration {
		return "", fmt.Errorf("vidkit.Trim: end time must be greater than start time")
	}
	if d := Duration(ctx, input); d > 0 && start.Seconds() > d {
		return "", fmt.Errorf("vidkit.Trim: start (%s) exceeds input duration (%.3fs)", start, d)
	}

	length := Time{end.Duration - start.Duration}
	output := trimOutput(input, time.Now())
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-ss", start.String(), // Seek before opening the input; fast
		"-i", input,
		"-t", length.String(),
		"-c", "copy",
		output},
		"Video cut", "Cutting:\n"+filepath.Base(input), length.Seconds())
	return output, exited("ffmpeg", rc)
}

func trimOutput(input string, ts time.Time) string {
	_, ext := zfilepath.SplitExt(input)
	return filepath.Join(filepath.Dir(input), ts.Format("20060102_150405")+"."+ext)
}

// Join concatenates the inputs with the concat demuxer, without re-encoding.
// The files need to have identical stream layouts for this to give sane
// results; Compatible can check that beforehand.
func (k *Kit) Join(ctx context.Context, inputs ...string) (string, error) {
	if len(inputs) < 2 {
		return "", fmt.Errorf("vidkit.Join: need at least two input files")
	}

	list, err := concatList(inputs)
	if err != nil {
		return "", fmt.Errorf("vidkit.Join: %w", err)
	}
	defer os.Remove(list)

	var total float64
	for _, in := range inputs {
		total += Duration(ctx, in)
	}

	label := filepath.Base(inputs[0])
	if len(inputs) > 1 {
		label = fmt.Sprintf("%s (+%d more)", label, len(inputs)-1)
	}

	output := joinOutput(inputs[0], time.Now())
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-f", "concat",
		"-safe", "0", // Trust filenames
		"-i", list,
		"-c", "copy",
		output},
		"Video join", "Joining:\n"+label, total)
	return output, exited("ffmpeg", rc)
}

// concatList writes a temporary list file for the concat demuxer.
func concatList(inputs []string) (string, error) {
	tmp, err := os.CreateTemp("", "vidkit.*.txt")
	if err != nil {
		return "", err
	}
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", err
		}
		_, err = fmt.Fprintf(tmp, "file '%s'\n", strings.ReplaceAll(abs, `'`, `'\''`))
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", err
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func joinOutput(first string, ts time.Time) string {
	_, ext := zfilepath.SplitExt(first)
	if ext == "" {
		ext = "avi"
	}
	return filepath.Join(filepath.Dir(first),
		fmt.Sprintf("joined_%s.%s", ts.Format("20060102-150405"), ext))
}

// Compatible reports whether all files have the same stream layout (codec,
// type, resolution), so that joining them without re-encoding makes sense.
// The returned description lists the layout per file for display.
func Compatible(ctx context.Context, inputs ...string) (bool, []string, error) {
	formats := make([]string, 0, len(inputs))
	for _, in := range inputs {
		info, err := Probe(ctx, in)
		if err != nil {
			return false, nil, err
		}
		f := make([]string, 0, 4)
		for _, s := range info.Streams {
			if s.CodecType == "subtitle" || s.CodecType == "data" {
				continue
			}
			f = append(f, fmt.Sprintf("%s %s %dx%d", s.CodecType, s.CodecName, s.Width, s.Height))
		}
		formats = append(formats, strings.Join(f, "\n"))
	}
	for i := range formats {
		if i > 0 && formats[i] != formats[i-1] {
			return false, formats, nil
		}
	}
	return true, formats, nil
}

// Fade applies a fade-in and/or fade-out to both video and audio, encoding to
// utvideo/pcm_f32le at the configured frame rate. Durations are in seconds; 0
// skips that fade. output may be empty (next to the input), a directory, or a
// file path.
func (k *Kit) Fade(ctx context.Context, input, output string, fadeIn, fadeOut float64) (string, error) {
	total := Duration(ctx, input)
	if total <= 0 {
		return "", fmt.Errorf("vidkit.Fade: can't determine duration of %q", input)
	}

	out, err := fadeOutput(input, output)
	if err != nil {
		return "", fmt.Errorf("vidkit.Fade: %w", err)
	}

	vf, af := fadeFilter(k.Conf.FPS, fadeIn, fadeOut, total)
	args := []string{"ffmpeg", "-hide_banner", "-y",
		"-i", input,
		"-c:v", "utvideo",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(k.Conf.FPS),
		"-vf", vf,
		"-c:a", "pcm_f32le",
	}
	if af != "" {
		args = append(args, "-af", af)
	}
	args = append(args, out)

	rc := k.Run(ctx, args, "Video fade", "Encoding:\n"+filepath.Base(input), total)
	return out, exited("ffmpeg", rc)
}

// fadeFilter builds the video and audio filter chains; the audio chain is
// empty when neither fade is set.
func fadeFilter(fps int, fadeIn, fadeOut, total float64) (vf, af string) {
	v := []string{fmt.Sprintf("fps=%d", fps)}
	var a []string
	if fadeIn > 0 {
		v = append(v, fmt.Sprintf("fade=t=in:st=0:d=%.3f", fadeIn))
		a = append(a, fmt.Sprintf("afade=t=in:st=0:d=%.3f", fadeIn))
	}
	if fadeOut > 0 {
		st := total - fadeOut
		if st < 0 {
			st = 0
		}
		v = append(v, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", st, fadeOut))
		a = append(a, fmt.Sprintf("afade=t=out:st=%.3f:d=%.3f", st, fadeOut))
	}
	v = append(v, "format=yuv420p")
	return strings.Join(v, ","), strings.Join(a, ",")
}

func fadeOutput(input, output string) (string, error) {
	base, ext := zfilepath.SplitExt(filepath.Base(input))
	name := base + "_fade." + ext
	if output == "" {
		return filepath.Join(filepath.Dir(input), name), nil
	}
	st, err := os.Stat(output)
	if err == nil && st.IsDir() {
		return filepath.Join(output, name), nil
	}
	return output, nil
}

// ToUTVideo converts to lossless utvideo/pcm_f32le in an AVI container,
// useful as an intermediate to avoid generation loss.
func (k *Kit) ToUTVideo(ctx context.Context, input string) (string, error) {
	base, _ := zfilepath.SplitExt(input)
	output := base + "_utvideo.avi"
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-i", input,
		"-map", "0",
		"-c:v", "utvideo",
		"-r", strconv.Itoa(k.Conf.FPS),
		"-c:a", "pcm_f32le",
		output},
		"UTVideo conversion", "Converting:\n"+filepath.Base(input), Duration(ctx, input))
	return output, exited("ffmpeg", rc)
}

// PrepareYouTube upscales to the configured height and encodes ProRes 422 HQ
// with PCM audio; YouTube hands out a better bitrate budget to 4K uploads.
func (k *Kit) PrepareYouTube(ctx context.Context, input string) (string, error) {
	base, _ := zfilepath.SplitExt(input)
	output := base + "_youtube.mov"
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-i", input,
		"-map", "0",
		"-vf", fmt.Sprintf("scale=-1:%d", k.Conf.YouTubeHeight),
		"-c:v", "prores_ks",
		"-profile:v", "3", // ProRes 422 HQ
		"-pix_fmt", "yuv422p10le",
		"-c:a", "pcm_s16le",
		output},
		"YouTube preparation", "Converting:\n"+filepath.Base(input), Duration(ctx, input))
	return output, exited("ffmpeg", rc)
}

// ExtractAudio saves the audio track next to the input as .wav, without
// re-encoding.
func (k *Kit) ExtractAudio(ctx context.Context, input string) (string, error) {
	base, _ := zfilepath.SplitExt(input)
	output := base + ".wav"
	rc := k.Run(ctx, []string{"ffmpeg", "-hide_banner", "-y",
		"-i", input,
		"-vn",
		"-c:a", "copy",
		output},
		"Audio extraction", "Extracting from:\n"+filepath.Base(input), Duration(ctx, input))
	return output, exited("ffmpeg", rc)
}

func exited(cmd string, rc int) error {
	if rc == 0 {
		return nil
	}
	return &ExitError{Cmd: cmd, Code: rc}
}

// runTool runs a command that has no progress stream (sox, mostly) and
// captures its output for the error message. A non-zero exit status comes
// back as an ExitError so the real code survives to the caller.
func (k *Kit) runTool(ctx context.Context, name string, args ...string) error {
	if k.Verbose {
		printCmd(append([]string{name}, args...))
	}
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() > 0 {
			return fmt.Errorf("%w: %s", &ExitError{Cmd: name, Code: ee.ExitCode()}, zbyte.ElideLeft(out, 500))
		}
		return fmt.Errorf("%s: %w: %s", name, err, zbyte.ElideLeft(out, 500))
	}
	return nil
}

func printCmd(cmd []string) {
	q := make([]string, 0, len(cmd))
	for _, a := range cmd {
		q = append(q, shellQuote(a))
	}
	fmt.Fprintln(os.Stderr, strings.Join(q, " "))
}

func shellQuote(s string) string {
	if len(s) == 0 {
		return "''"
	}
	if !strings.ContainsAny(s, "\\'\"`${[|&;<>()*?! \t\n") && s[0] != '~' {
		return s
	}
	if strings.Contains(s, "'") && !strings.ContainsAny("\\\"$`", s) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
