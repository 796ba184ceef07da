package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Layout owns the on-disk areas for job artifacts: uploaded sources under
// input/, intermediate files under tmp/, rendered clips under output/.
// Every artifact is addressed by job id.
type Layout struct {
	inputDir  string
	tmpDir    string
	outputDir string
}

func NewLayout(root string) (*Layout, error) {
	l := &Layout{
		inputDir:  filepath.Join(root, "input"),
		tmpDir:    filepath.Join(root, "tmp"),
		outputDir: filepath.Join(root, "output"),
	}
	for _, dir := range []string{l.inputDir, l.tmpDir, l.outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return l, nil
}

func (l *Layout) InputPath(jobID string) string {
	return filepath.Join(l.inputDir, jobID+".mp4")
}

func (l *Layout) AudioPath(jobID string) string {
	return filepath.Join(l.tmpDir, jobID+".wav")
}

func (l *Layout) ClipPath(jobID string) string {
	return filepath.Join(l.tmpDir, jobID+"_clip.mp4")
}

func (l *Layout) SubtitlePath(jobID string) string {
	return filepath.Join(l.tmpDir, jobID+".ass")
}

func (l *Layout) OutputPath(jobID string) string {
	return filepath.Join(l.outputDir, jobID+".mp4")
}

// SaveUpload persists an uploaded payload as the job's source video and
// returns its path.
func (l *Layout) SaveUpload(jobID string, r io.Reader) (string, error) {
	path := l.InputPath(jobID)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// OutputExists reports whether the rendered clip is on disk.
func (l *Layout) OutputExists(jobID string) bool {
	_, err := os.Stat(l.OutputPath(jobID))
	return err == nil
}

// RemoveJobFiles deletes every artifact of a job. Missing files are fine:
// failed jobs leave partial sets behind.
func (l *Layout) RemoveJobFiles(jobID string) error {
	paths := []string{
		l.InputPath(jobID),
		l.AudioPath(jobID),
		l.ClipPath(jobID),
		l.SubtitlePath(jobID),
		l.OutputPath(jobID),
	}
	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
