package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout_CreatesDirs(t *testing.T) {
	root := t.TempDir()
	_, err := NewLayout(root)
	require.NoError(t, err)

	for _, sub := range []string{"input", "tmp", "output"} {
		info, err := os.Stat(root + "/" + sub)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveUpload_RoundTrip(t *testing.T) {
	l, err := NewLayout(t.TempDir())
	require.NoError(t, err)

	path, err := l.SaveUpload("job-1", strings.NewReader("video-bytes"))
	require.NoError(t, err)
	assert.Equal(t, l.InputPath("job-1"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(b))
}

func TestOutputExists(t *testing.T) {
	l, err := NewLayout(t.TempDir())
	require.NoError(t, err)

	assert.False(t, l.OutputExists("job-1"))
	require.NoError(t, os.WriteFile(l.OutputPath("job-1"), []byte("clip"), 0o644))
	assert.True(t, l.OutputExists("job-1"))
}

func TestRemoveJobFiles_ToleratesPartialSets(t *testing.T) {
	l, err := NewLayout(t.TempDir())
	require.NoError(t, err)

	// Only some artifacts exist, as after a mid-pipeline failure.
	require.NoError(t, os.WriteFile(l.InputPath("job-1"), []byte("in"), 0o644))
	require.NoError(t, os.WriteFile(l.AudioPath("job-1"), []byte("wav"), 0o644))

	require.NoError(t, l.RemoveJobFiles("job-1"))

	_, err = os.Stat(l.InputPath("job-1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(l.AudioPath("job-1"))
	assert.True(t, os.IsNotExist(err))
}
