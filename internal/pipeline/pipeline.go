package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/clipfile/clipper/internal/captions"
	"github.com/clipfile/clipper/internal/highlight"
	"github.com/clipfile/clipper/internal/jobs"
	"github.com/clipfile/clipper/internal/storage"
	"github.com/clipfile/clipper/internal/transcript"
	"github.com/clipfile/clipper/pkg/log"
)

// MediaTool is the pipeline's view of the external ffmpeg/ffprobe
// collaborator.
type MediaTool interface {
	ExtractAudio(ctx context.Context, videoPath, wavPath string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
	TrimCopy(ctx context.Context, videoPath string, start, end float64, outPath string) error
	BurnSubtitles(ctx context.Context, videoPath, assPath, outPath, fontsDir string) error
}

// Transcriber is the pipeline's view of the transcription collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error)
}

// Progress checkpoints written after each stage commits. Creation and the
// run start are marked by the queue; success sets 100 there as well.
const (
	progressAudioExtracted = 20
	progressTranscribed    = 50
	progressWindowSelected = 65
	progressCaptionsBuilt  = 80
)

type Config struct {
	Selector  highlight.Config
	GroupSize int
	Style     captions.Style
	FontsDir  string
}

// Pipeline turns one uploaded video into a captioned highlight clip. Each
// stage depends on the previous one's output; the first error is terminal
// for the job, with no retry and no cleanup of partial artifacts.
type Pipeline struct {
	media  MediaTool
	asr    Transcriber
	layout *storage.Layout
	cfg    Config
}

func New(media MediaTool, asr Transcriber, layout *storage.Layout, cfg Config) *Pipeline {
	return &Pipeline{media: media, asr: asr, layout: layout, cfg: cfg}
}

// Execute runs the full pipeline for one job. It implements jobs.Executor.
func (p *Pipeline) Execute(ctx context.Context, job jobs.ClipJob, progress func(int)) (string, error) {
	wavPath := p.layout.AudioPath(job.ID)
	if err := p.media.ExtractAudio(ctx, job.InputPath, wavPath); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	progress(progressAudioExtracted)

	tr, err := p.asr.Transcribe(ctx, wavPath)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	log.Info("Job %s transcribed: %d words (language %q)", job.ID, len(tr.Words), tr.Language)
	progress(progressTranscribed)

	totalDuration, err := p.media.ProbeDuration(ctx, job.InputPath)
	if err != nil {
		return "", fmt.Errorf("probe duration: %w", err)
	}
	win, err := highlight.Select(tr.Words, totalDuration, p.cfg.Selector)
	if err != nil {
		return "", fmt.Errorf("select window: %w", err)
	}
	log.Info("Job %s window: %.1fs..%.1fs of %.1fs", job.ID, win.Start, win.End, totalDuration)
	progress(progressWindowSelected)

	clipPath := p.layout.ClipPath(job.ID)
	if err := p.media.TrimCopy(ctx, job.InputPath, win.Start, win.End, clipPath); err != nil {
		return "", fmt.Errorf("trim clip: %w", err)
	}

	events := captions.Build(tr.Words, win, p.cfg.GroupSize)
	assPath := p.layout.SubtitlePath(job.ID)
	doc := captions.RenderASS(events, p.cfg.Style)
	if err := os.WriteFile(assPath, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}
	progress(progressCaptionsBuilt)

	outputPath := p.layout.OutputPath(job.ID)
	if err := p.media.BurnSubtitles(ctx, clipPath, assPath, outputPath, p.cfg.FontsDir); err != nil {
		return "", fmt.Errorf("render clip: %w", err)
	}

	log.Info("Job %s rendered: %s (%d captions)", job.ID, outputPath, len(events))
	return outputPath, nil
}
