package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg shells out to ffmpeg/ffprobe for the four media operations the
// pipeline needs. Any non-zero exit is surfaced as an error carrying the
// tool's combined output.
type FFmpeg struct {
	ffmpegCmd  string
	ffprobeCmd string
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegCmd: ffmpegPath, ffprobeCmd: ffprobePath}
}

// ExtractAudio demuxes the video into mono 16kHz WAV, the input format the
// transcription service requires.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, wavPath string) error {
	cmd := exec.CommandContext(ctx, f.ffmpegCmd,
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		wavPath,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// ProbeDuration returns the container duration in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobeCmd,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", s, err)
	}
	return sec, nil
}

// TrimCopy cuts [start, end] out of the video with stream copy, no
// re-encode.
func (f *FFmpeg) TrimCopy(ctx context.Context, videoPath string, start, end float64, outPath string) error {
	cmd := exec.CommandContext(ctx, f.ffmpegCmd,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", videoPath,
		"-c", "copy",
		outPath,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg trim: %w\n%s", err, string(b))
	}
	return nil
}

// BurnSubtitles renders the ASS file into the video frames; the audio
// stream is copied unchanged. fontsDir may be empty.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, videoPath, assPath, outPath, fontsDir string) error {
	filter := "ass=" + escapeFilterPath(assPath)
	if fontsDir != "" {
		filter += ":fontsdir=" + escapeFilterPath(fontsDir)
	}
	cmd := exec.CommandContext(ctx, f.ffmpegCmd,
		"-y",
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		outPath,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %w\n%s", err, string(b))
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes the characters ffmpeg's filter parser treats
// specially in filename arguments.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
