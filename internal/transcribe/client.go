package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/clipfile/clipper/internal/transcript"
)

// ErrMissingWords marks a response that parsed but carries no words field.
// That is a protocol violation on the service side, checked once here so
// nothing downstream has to re-validate the shape.
var ErrMissingWords = errors.New("transcription response has no words field")

const defaultTimeout = 30 * time.Minute

// Client talks to the remote transcription service: one multipart POST
// with the audio file, one JSON response with timestamped words. The
// service runs whisper on GPU, so the timeout is generous.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio file and returns the parsed transcript.
// There is no retry: the caller treats the first failure as terminal.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("open audio: %w", err)
	}
	defer audio.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return transcript.Transcript{}, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return transcript.Transcript{}, fmt.Errorf("read audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return transcript.Transcript{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return transcript.Transcript{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return transcript.Transcript{}, fmt.Errorf("transcription service status %d: %s", resp.StatusCode, truncate(body, 512))
	}

	// Words is a pointer so an absent field is distinguishable from an
	// empty transcript (silence is valid, a missing field is not).
	var payload struct {
		Language string             `json:"language"`
		Words    *[]transcript.Word `json:"words"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return transcript.Transcript{}, fmt.Errorf("decode transcription response: %w", err)
	}
	if payload.Words == nil {
		return transcript.Transcript{}, ErrMissingWords
	}

	return transcript.Transcript{Language: payload.Language, Words: *payload.Words}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
