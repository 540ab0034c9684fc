package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugeFrog24/bankdesk/utils"
)

type stubProcessor struct {
	result   utils.QueryResult
	err      error
	gotPath  string
	deadline bool
}

func (s *stubProcessor) ProcessFile(ctx context.Context, mediaFile string) (utils.QueryResult, error) {
	s.gotPath = mediaFile
	_, s.deadline = ctx.Deadline()
	return s.result, s.err
}

func newTestProcessHandler(t *testing.T, processor QueryProcessor) (*ProcessHandler, string) {
	t.Helper()
	uploadDir := t.TempDir()
	h := &ProcessHandler{
		processor: processor,
		uploadDir: uploadDir,
		timeout:   time.Minute,
		checkFFmpeg: func(ctx context.Context) (string, error) {
			return "ffmpeg version 6.1", nil
		},
	}
	return h, uploadDir
}

func writeUpload(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	return path
}

func TestProcessServer_Routed(t *testing.T) {
	processor := &stubProcessor{result: utils.QueryResult{
		Transcription:  "mera loan kab approve hoga",
		Language:       "hi",
		TranslatedText: "when will my loan be approved",
		Sentiment:      utils.SentimentNegative,
		Confidence:     0.8,
		Department:     "Loan & Credit Department",
	}}
	h, uploadDir := newTestProcessHandler(t, processor)
	path := writeUpload(t, uploadDir, "query.wav")

	w := postJSON(t, h.routes(nil), "/process", `{"file_name":"query.wav"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, path, processor.gotPath)
	assert.True(t, processor.deadline)

	body := decodeBody(t, w)
	assert.Equal(t, "query.wav", body["file_id"])
	assert.Equal(t, "mera loan kab approve hoga", body["transcription"])
	assert.Equal(t, "when will my loan be approved", body["translated_text"])
	assert.Equal(t, "NEGATIVE", body["sentiment"])
	assert.InDelta(t, 0.8, body["confidence"], 1e-9)
	assert.Equal(t, "Loan & Credit Department", body["department"])
	assert.Equal(t, "hi", body["language"])
	assert.Equal(t, "/api/media/query.wav", body["file_path"])
}

func TestProcessServer_NoDepartmentIsNull(t *testing.T) {
	processor := &stubProcessor{result: utils.QueryResult{Transcription: "hello", Sentiment: utils.SentimentPositive}}
	h, uploadDir := newTestProcessHandler(t, processor)
	writeUpload(t, uploadDir, "hello.wav")

	w := postJSON(t, h.routes(nil), "/process", `{"file_name":"hello.wav"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	value, present := body["department"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestProcessServer_Rejected(t *testing.T) {
	reason := "Query rejected: Inappropriate content detected ('hack')"
	processor := &stubProcessor{result: utils.QueryResult{
		Transcription: "how do I hack an atm",
		Rejected:      true,
		RejectReason:  reason,
	}}
	h, uploadDir := newTestProcessHandler(t, processor)
	writeUpload(t, uploadDir, "bad.wav")

	w := postJSON(t, h.routes(nil), "/process", `{"file_name":"bad.wav"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, reason, body["error"])
	assert.Equal(t, "how do I hack an atm", body["transcription"])
	assert.Equal(t, "bad.wav", body["file_id"])
	assert.NotContains(t, body, "department")
}

func TestProcessServer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		upload     bool
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "no json", body: `nope`, wantStatus: http.StatusBadRequest, wantError: "No JSON data received"},
		{name: "no file name", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "No file_name provided"},
		{name: "path traversal", body: `{"file_name":"../secret.wav"}`, wantStatus: http.StatusBadRequest},
		{name: "absolute path", body: `{"file_name":"/etc/passwd"}`, wantStatus: http.StatusBadRequest},
		{name: "missing upload", body: `{"file_name":"gone.wav"}`, wantStatus: http.StatusNotFound},
		{
			name:       "no audio stream",
			body:       `{"file_name":"q.wav"}`,
			upload:     true,
			err:        fmt.Errorf("q.wav: %w", utils.ErrNoAudio),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "pipeline failure",
			body:       `{"file_name":"q.wav"}`,
			upload:     true,
			err:        errors.New("whisper down"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Processing error: whisper down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &stubProcessor{err: tt.err}
			h, uploadDir := newTestProcessHandler(t, processor)
			if tt.upload {
				writeUpload(t, uploadDir, "q.wav")
			}

			w := postJSON(t, h.routes(nil), "/process", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.NotEmpty(t, body["error"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			if !tt.upload {
				assert.Empty(t, processor.gotPath)
			}
		})
	}
}

func TestProcessServer_Media(t *testing.T) {
	h, uploadDir := newTestProcessHandler(t, &stubProcessor{})
	writeUpload(t, uploadDir, "query.wav")
	engine := h.routes(nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/query.wav", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/missing.wav", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProcessServer_Health(t *testing.T) {
	h, _ := newTestProcessHandler(t, &stubProcessor{})

	w := httptest.NewRecorder()
	h.routes(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ffmpeg version 6.1", decodeBody(t, w)["ffmpeg"])

	h.checkFFmpeg = func(ctx context.Context) (string, error) {
		return "", utils.ErrFFmpegMissing
	}
	w = httptest.NewRecorder()
	h.routes(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])
}
