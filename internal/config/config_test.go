package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "http://pod:8000/transcribe")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Empty(t, cfg.Storage.DBPath)
	assert.Equal(t, 1800, cfg.Transcriber.TimeoutSec)
	assert.Equal(t, 20.0, cfg.Clip.MinClipSec)
	assert.Equal(t, 30.0, cfg.Clip.MaxClipSec)
	assert.Equal(t, 2, cfg.Captions.GroupSize)
	assert.Equal(t, 4, cfg.Jobs.WorkerCount)
	assert.Equal(t, "0 * * * *", cfg.Jobs.RetentionCron)
}

func TestNewFromEnv_RequiresTranscriberURL(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSCRIBER_URL")
}

func TestNewFromEnv_OverridesFromEnv(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "http://pod:8000/transcribe")
	t.Setenv("ADDR", ":9090")
	t.Setenv("MIN_CLIP_SEC", "15")
	t.Setenv("MAX_CLIP_SEC", "25")
	t.Setenv("CAPTION_FONT", "Inter")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LAUGHTER_MARKERS", "lol,haha")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 15.0, cfg.Clip.MinClipSec)
	assert.Equal(t, 25.0, cfg.Clip.MaxClipSec)
	assert.Equal(t, "Inter", cfg.Captions.FontName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, []string{"lol", "haha"}, cfg.Clip.LaughterMarkers)
}

func TestNewFromEnv_RejectsInvertedClipBounds(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "http://pod:8000/transcribe")
	t.Setenv("MIN_CLIP_SEC", "40")
	t.Setenv("MAX_CLIP_SEC", "30")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_CLIP_SEC")
}

func TestSelectorConfig_CarriesTunedWeights(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "http://pod:8000/transcribe")
	t.Setenv("LAUGHTER_BONUS", "0")
	t.Setenv("EMPHASIS_BONUS", "0")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	sel := cfg.SelectorConfig()
	assert.Equal(t, 0.0, sel.Weights.LaughterBonus)
	assert.Equal(t, 0.0, sel.Weights.EmphasisBonus)
	assert.Equal(t, 1.0, sel.Weights.WordWeight)
}

func TestCaptionStyle_MapsFields(t *testing.T) {
	t.Setenv("TRANSCRIBER_URL", "http://pod:8000/transcribe")
	t.Setenv("CAPTION_FONT_SIZE", "72")
	t.Setenv("CAPTION_ALIGNMENT", "2")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	style := cfg.CaptionStyle()
	assert.Equal(t, 72, style.FontSize)
	assert.Equal(t, 2, style.Alignment)
	assert.Equal(t, 1920, style.PlayResX)
}
