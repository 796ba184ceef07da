package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/clipfile/clipper/internal/captions"
	"github.com/clipfile/clipper/internal/highlight"
)

// Config holds all application configuration, populated from environment
// variables with sensible defaults.
//
// Environment variables:
//
// HTTP:
// - ADDR: listen address (default :8080)
// - CORS_ORIGINS: comma-separated allowed origins (default *)
//
// Storage:
// - DATA_DIR: root for input/tmp/output artifact dirs (default ./data)
// - DB_PATH: sqlite database path; empty keeps jobs in memory only
//
// Transcription service:
// - TRANSCRIBER_URL: transcription endpoint (required)
// - TRANSCRIBE_TIMEOUT_SEC: request timeout in seconds (default 1800)
//
// Clip selection:
// - MIN_CLIP_SEC / MAX_CLIP_SEC: window duration bounds (default 20 / 30)
// - CLIP_DURATION_STEP_SEC: duration sweep step (default 2)
// - CLIP_START_STEP_SEC: start-time sweep step (default 1)
// - LAUGHTER_BONUS / EMPHASIS_BONUS: lexical score bonuses (default 0.5 / 0.25)
// - LAUGHTER_MARKERS: comma-separated salience markers
//
// Captions:
// - CAPTION_GROUP_SIZE: words per caption line (default 2)
// - CAPTION_FONT / CAPTION_FONT_SIZE: style font (default Poppins ExtraBold / 110)
// - CAPTION_PRIMARY_COLOUR / CAPTION_OUTLINE_COLOUR: ASS colours
// - CAPTION_OUTLINE_WIDTH / CAPTION_ALIGNMENT: outline and placement
//
// Media tool:
// - FFMPEG_PATH / FFPROBE_PATH: binary overrides (default PATH lookup)
// - FONTS_DIR: extra fonts directory for subtitle burn-in
//
// Jobs:
// - WORKER_COUNT: pipeline worker pool size (default 4)
// - RETENTION_TTL_HOURS: age before finished jobs are swept (default 24)
// - RETENTION_CRON: sweep schedule (default hourly)
//
// System:
// - LOG_LEVEL: debug/info/warn/error (default info)

type Config struct {
	HTTP        HTTPConfig
	Storage     StorageConfig
	Transcriber TranscriberConfig
	Clip        ClipConfig
	Captions    CaptionConfig
	MediaTool   MediaToolConfig
	Jobs        JobsConfig
	LogLevel    string
}

type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
}

type StorageConfig struct {
	DataDir string
	DBPath  string
}

type TranscriberConfig struct {
	URL        string
	TimeoutSec int
}

type ClipConfig struct {
	MinClipSec      float64
	MaxClipSec      float64
	DurationStepSec float64
	StartStepSec    float64
	LaughterBonus   float64
	EmphasisBonus   float64
	LaughterMarkers []string
}

type CaptionConfig struct {
	GroupSize     int
	FontName      string
	FontSize      int
	PrimaryColour string
	OutlineColour string
	OutlineWidth  int
	Alignment     int
}

type MediaToolConfig struct {
	FFmpegPath  string
	FFprobePath string
	FontsDir    string
}

type JobsConfig struct {
	WorkerCount       int
	RetentionTTLHours int
	RetentionCron     string
}

// Option is a function type for adjusting Config after env parsing.
type Option func(*Config)

// NewFromEnv builds a Config from environment variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	defaults := highlight.DefaultConfig()
	style := captions.DefaultStyle()

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:        getEnvString("ADDR", ":8080"),
			CORSOrigins: getEnvStrings("CORS_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			DataDir: getEnvString("DATA_DIR", "./data"),
			DBPath:  getEnvString("DB_PATH", ""),
		},
		Transcriber: TranscriberConfig{
			URL:        getEnvString("TRANSCRIBER_URL", ""),
			TimeoutSec: getEnvInt("TRANSCRIBE_TIMEOUT_SEC", 1800),
		},
		Clip: ClipConfig{
			MinClipSec:      getEnvFloat("MIN_CLIP_SEC", defaults.MinClip),
			MaxClipSec:      getEnvFloat("MAX_CLIP_SEC", defaults.MaxClip),
			DurationStepSec: getEnvFloat("CLIP_DURATION_STEP_SEC", defaults.DurationStep),
			StartStepSec:    getEnvFloat("CLIP_START_STEP_SEC", defaults.StartStep),
			LaughterBonus:   getEnvFloat("LAUGHTER_BONUS", defaults.Weights.LaughterBonus),
			EmphasisBonus:   getEnvFloat("EMPHASIS_BONUS", defaults.Weights.EmphasisBonus),
			LaughterMarkers: getEnvStrings("LAUGHTER_MARKERS", defaults.Weights.LaughterMarkers),
		},
		Captions: CaptionConfig{
			GroupSize:     getEnvInt("CAPTION_GROUP_SIZE", 2),
			FontName:      getEnvString("CAPTION_FONT", style.FontName),
			FontSize:      getEnvInt("CAPTION_FONT_SIZE", style.FontSize),
			PrimaryColour: getEnvString("CAPTION_PRIMARY_COLOUR", style.PrimaryColour),
			OutlineColour: getEnvString("CAPTION_OUTLINE_COLOUR", style.OutlineColour),
			OutlineWidth:  getEnvInt("CAPTION_OUTLINE_WIDTH", style.OutlineWidth),
			Alignment:     getEnvInt("CAPTION_ALIGNMENT", style.Alignment),
		},
		MediaTool: MediaToolConfig{
			FFmpegPath:  getEnvString("FFMPEG_PATH", ""),
			FFprobePath: getEnvString("FFPROBE_PATH", ""),
			FontsDir:    getEnvString("FONTS_DIR", ""),
		},
		Jobs: JobsConfig{
			WorkerCount:       getEnvInt("WORKER_COUNT", 4),
			RetentionTTLHours: getEnvInt("RETENTION_TTL_HOURS", 24),
			RetentionCron:     getEnvString("RETENTION_CRON", "0 * * * *"),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Transcriber.URL == "" {
		return fmt.Errorf("TRANSCRIBER_URL is required")
	}
	if c.Clip.MinClipSec <= 0 {
		return fmt.Errorf("MIN_CLIP_SEC must be > 0")
	}
	if c.Clip.MaxClipSec < c.Clip.MinClipSec {
		return fmt.Errorf("MAX_CLIP_SEC must be >= MIN_CLIP_SEC")
	}
	if c.Captions.GroupSize <= 0 {
		return fmt.Errorf("CAPTION_GROUP_SIZE must be > 0")
	}
	if c.Jobs.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be > 0")
	}
	return nil
}

// SelectorConfig maps the env config onto the selector's domain config.
func (c *Config) SelectorConfig() highlight.Config {
	base := highlight.DefaultConfig()
	return highlight.Config{
		MinClip:      c.Clip.MinClipSec,
		MaxClip:      c.Clip.MaxClipSec,
		DurationStep: c.Clip.DurationStepSec,
		StartStep:    c.Clip.StartStepSec,
		Weights: highlight.Weights{
			WordWeight:      base.Weights.WordWeight,
			LaughterBonus:   c.Clip.LaughterBonus,
			EmphasisBonus:   c.Clip.EmphasisBonus,
			LaughterMarkers: c.Clip.LaughterMarkers,
		},
	}
}

// CaptionStyle maps the env config onto the ASS style.
func (c *Config) CaptionStyle() captions.Style {
	base := captions.DefaultStyle()
	return captions.Style{
		FontName:      c.Captions.FontName,
		FontSize:      c.Captions.FontSize,
		PrimaryColour: c.Captions.PrimaryColour,
		OutlineColour: c.Captions.OutlineColour,
		OutlineWidth:  c.Captions.OutlineWidth,
		Alignment:     c.Captions.Alignment,
		PlayResX:      base.PlayResX,
		PlayResY:      base.PlayResY,
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvStrings(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	if len(ret) == 0 {
		return defaultValue
	}
	return ret
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
