package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSplit writes n chunk files into tmpDir.
func fakeSplit(n int) splitFunc {
	return func(ctx context.Context, audioFile, tmpDir string, maxDuration time.Duration) ([]string, error) {
		var chunks []string
		for i := 0; i < n; i++ {
			chunk := filepath.Join(tmpDir, "chunk_"+string(rune('a'+i))+".wav")
			if err := os.WriteFile(chunk, []byte("pcm"), 0o644); err != nil {
				return chunks, err
			}
			chunks = append(chunks, chunk)
		}
		return chunks, nil
	}
}

func TestRealAudioTranscriber_JoinsChunks(t *testing.T) {
	audio := writeMediaFile(t, t.TempDir(), "query.wav")

	var models []string
	client := &MockTranscriptionClient{
		CreateTranscriptionFunc: func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			models = append(models, req.Model)
			assert.Equal(t, openai.AudioResponseFormatVerboseJSON, req.Format)
			if filepath.Base(req.FilePath) == "chunk_a.wav" {
				return openai.AudioResponse{Text: " what is my", Language: "english"}, nil
			}
			return openai.AudioResponse{Text: "loan balance "}, nil
		},
	}

	tmpDir := t.TempDir()
	tr := NewRealAudioTranscriber(client, "", tmpDir)
	tr.split = fakeSplit(2)

	got, err := tr.TranscribeAudio(context.Background(), audio, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "what is my loan balance", got.Text)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, []string{openai.Whisper1, openai.Whisper1}, models)

	assert.NoFileExists(t, filepath.Join(tmpDir, "chunk_a.wav"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "chunk_b.wav"))
	assert.FileExists(t, audio, "the source file is left alone")
}

func TestRealAudioTranscriber_Errors(t *testing.T) {
	client := &MockTranscriptionClient{
		CreateTranscriptionFunc: func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			return openai.AudioResponse{}, errors.New("quota exceeded")
		},
	}
	tmpDir := t.TempDir()
	tr := NewRealAudioTranscriber(client, "whisper-test", tmpDir)
	tr.split = fakeSplit(1)

	_, err := tr.TranscribeAudio(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), time.Minute)
	assert.ErrorIs(t, err, ErrFileNotFound)

	audio := writeMediaFile(t, t.TempDir(), "query.wav")
	_, err = tr.TranscribeAudio(context.Background(), audio, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NoFileExists(t, filepath.Join(tmpDir, "chunk_a.wav"))
}

// installFakeFFmpeg puts ffprobe and ffmpeg stand-ins on PATH. ffprobe
// reports a one second file and ffmpeg writes its last argument.
func installFakeFFmpeg(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stand-ins need a POSIX shell")
	}
	bin := t.TempDir()
	scripts := map[string]string{
		"ffprobe": "#!/bin/sh\necho 1.0\n",
		"ffmpeg":  "#!/bin/sh\nfor last; do :; done\nprintf pcm > \"$last\"\n",
	}
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(body), 0o755))
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRealAudioTranscriber_ChunksStayInTmpDir(t *testing.T) {
	installFakeFFmpeg(t)

	uploadDir := t.TempDir()
	tmpDir := t.TempDir()
	audio := writeMediaFile(t, uploadDir, "foo.wav")
	neighbour := filepath.Join(uploadDir, "foo_chunk_0.wav")
	require.NoError(t, os.WriteFile(neighbour, []byte("another upload"), 0o644))

	var chunkPath string
	client := &MockTranscriptionClient{
		CreateTranscriptionFunc: func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			chunkPath = req.FilePath
			return openai.AudioResponse{Text: "check my balance", Language: "english"}, nil
		},
	}

	got, err := NewRealAudioTranscriber(client, "", tmpDir).TranscribeAudio(context.Background(), audio, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "check my balance", got.Text)

	assert.Equal(t, tmpDir, filepath.Dir(chunkPath))
	assert.True(t, strings.HasPrefix(filepath.Base(chunkPath), "foo_"), chunkPath)
	assert.NoFileExists(t, chunkPath)

	data, err := os.ReadFile(neighbour)
	require.NoError(t, err)
	assert.Equal(t, "another upload", string(data))
}

func TestRealAudioTranscriber_ConcurrentCallsUseDistinctChunks(t *testing.T) {
	installFakeFFmpeg(t)

	tmpDir := t.TempDir()
	audio := writeMediaFile(t, t.TempDir(), "foo.wav")

	var (
		mu    sync.Mutex
		paths = map[string]bool{}
	)
	client := &MockTranscriptionClient{
		CreateTranscriptionFunc: func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			mu.Lock()
			paths[req.FilePath] = true
			mu.Unlock()
			return openai.AudioResponse{Text: "hello", Language: "english"}, nil
		},
	}
	tr := NewRealAudioTranscriber(client, "", tmpDir)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = tr.TranscribeAudio(context.Background(), audio, time.Minute)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, paths, len(errs))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
