package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"zgo.at/vidkit"
	"zgo.at/zli"
)

var usageBrief = `
vidkit is a set of video-editing helpers on top of ffmpeg, ffprobe, and sox.

Commands:
    info         [file] [file...]
    trim         [-interactive] [-start time] [-end time] [file]
    join         [-f] [file...]
    fade         [-in dur] [-out dur] [-fade dur] [-o output] [file]
    vhs          [file]
    utvideo      [file]
    youtube      [file]
    audio        [file]

Use the -v flag with any command to print the external commands to stderr.

Use "help" or "-h" for full help.
`[1:]

var usage = `
vidkit is a set of video-editing helpers on top of ffmpeg, ffprobe, and sox.
Progress is shown as desktop notifications (dunstify) when available.

Use the -v flag with any command to print the external commands to stderr.
Use -config to point at a TOML config file; without it
$XDG_CONFIG_HOME/vidkit/config.toml is read if it exists.

Commands:
    info [file] [file...]
            Show the streams and duration for all given files. Similar to
            ffprobe, but more compact.

    trim [-interactive] [-start time] [-end time] [file]
            Cut the segment from -start to -end without re-encoding, writing
            to a timestamped file next to the input. Times are "SS(.sss)",
            "MM:SS(.sss)", or "HH:MM:SS(.sss)".

            Flags:
                -i, -interactive    Ask for the start and end with rofi;
                                    -start/-end become the pre-filled values.

    join [-f] [file...]
            Join the files with the concat demuxer, without re-encoding, to
            "joined_<timestamp>" next to the first input. The files need the
            same streams with the same codecs and parameters; there's a basic
            check for that.

            Flags:
                -f, -force    Join even if the files look incompatible.

    fade [-in dur] [-out dur] [-fade dur] [-o output] [file]
            Apply a fade-in and/or fade-out to video and audio, encoding to
            utvideo/pcm_f32le at the configured frame rate.

            Flags:
                -in, -out     Fade-in / fade-out duration.
                -fade         Same duration for both.
                -o, -output   Output file or directory
                              (default: "<name>_fade<ext>" next to the input).

    vhs [file]
            Apply a VHS tape look: chroma bleed, noise, and scanline jitter on
            the video; brown noise and a low-pass filter on the audio (sox).
            Writes "<name>.avi" next to the input.

    utvideo [file]
            Convert to lossless utvideo/pcm_f32le ("<name>_utvideo.avi"),
            useful as an intermediate to avoid generation loss.

    youtube [file]
            Upscale and encode to ProRes 422 HQ ("<name>_youtube.mov") for
            uploading; YouTube gives 4K uploads a better bitrate budget.

    audio [file]
            Save the audio track as "<name>.wav" without re-encoding.
`[1:]

func main() {
	f := zli.NewFlags(os.Args)
	var (
		helpFlag    = f.Bool(false, "h", "help")
		verboseFlag = f.Bool(false, "v", "verbose")
		configFlag  = f.String("", "config")
	)
	zli.F(f.Parse(zli.AllowUnknown()))
	if helpFlag.Bool() {
		fmt.Print(usage)
		return
	}

	conf, err := vidkit.Load(configPath(configFlag.String()))
	zli.F(err)
	kit := vidkit.New(conf)
	kit.Verbose = verboseFlag.Bool()

	cmd, err := f.ShiftCommand("help", "info", "trim", "join", "fade", "vhs",
		"utvideo", "youtube", "audio")
	if errors.Is(err, zli.ErrCommandNoneGiven{}) {
		fmt.Print(usageBrief)
		return
	}
	zli.F(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cmdErr error
	switch cmd {
	case "help":
		fmt.Print(usage)
	case "info":
		zli.F(f.Parse())
		if len(f.Args) == 0 {
			zli.Fatalf(`"info" command needs at least one file`)
		}
		cmdErr = cmdInfo(ctx, f.Args...)
	case "trim":
		var (
			start = f.String("", "start")
			end   = f.String("", "end")
			inter = f.Bool(false, "i", "interactive")
		)
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit trim [-interactive] [-start time] [-end time] [file]")
		}
		cmdErr = cmdTrim(ctx, kit, f.Args[0], start.String(), end.String(), inter.Bool())
	case "join":
		var (
			force = f.Bool(false, "f", "force")
		)
		zli.F(f.Parse())
		if len(f.Args) < 2 {
			zli.Fatalf("need at least two input files")
		}
		cmdErr = cmdJoin(ctx, kit, force.Bool(), f.Args...)
	case "fade":
		var (
			fadeIn  = f.String("", "in")
			fadeOut = f.String("", "out")
			both    = f.String("", "fade")
			output  = f.String("", "o", "output")
		)
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit fade [-in dur] [-out dur] [-fade dur] [-o output] [file]")
		}
		cmdErr = cmdFade(ctx, kit, f.Args[0], output.String(),
			fadeIn.String(), fadeOut.String(), both.String())
	case "vhs":
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit vhs [file]")
		}
		cmdErr = cmdVHS(ctx, kit, f.Args[0])
	case "utvideo":
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit utvideo [file]")
		}
		cmdErr = cmdConvert(ctx, kit.ToUTVideo, f.Args[0])
	case "youtube":
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit youtube [file]")
		}
		cmdErr = cmdConvert(ctx, kit.PrepareYouTube, f.Args[0])
	case "audio":
		zli.F(f.Parse())
		if len(f.Args) != 1 {
			zli.Fatalf("usage: vidkit audio [file]")
		}
		cmdErr = cmdConvert(ctx, kit.ExtractAudio, f.Args[0])
	}
	fatal(cmdErr)
}

// fatal exits with the child process exit code where we have one, so scripts
// calling vidkit can branch on ffmpeg's status.
func fatal(err error) {
	if err == nil {
		return
	}
	var ee *vidkit.ExitError
	if errors.As(err, &ee) {
		zli.Errorf(err)
		os.Exit(ee.Code)
	}
	zli.F(err)
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "vidkit", "config.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
