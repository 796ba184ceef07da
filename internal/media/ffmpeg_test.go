package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFFmpeg_DefaultsToPathLookup(t *testing.T) {
	f := NewFFmpeg("", "")
	assert.Equal(t, "ffmpeg", f.ffmpegCmd)
	assert.Equal(t, "ffprobe", f.ffprobeCmd)

	custom := NewFFmpeg("/opt/ffmpeg/bin/ffmpeg", "/opt/ffmpeg/bin/ffprobe")
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", custom.ffmpegCmd)
}

func TestFmtSeconds(t *testing.T) {
	assert.Equal(t, "0.000", fmtSeconds(0))
	assert.Equal(t, "12.500", fmtSeconds(12.5))
	assert.Equal(t, "83.333", fmtSeconds(83.333))
}

func TestEscapeFilterPath(t *testing.T) {
	assert.Equal(t, "/tmp/a.ass", escapeFilterPath("/tmp/a.ass"))
	assert.Equal(t, "C\\:\\\\clips\\\\a.ass", escapeFilterPath(`C:\clips\a.ass`))
}
