package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

var ErrFileNotFound = errors.New("file not found")

type splitFunc func(ctx context.Context, audioFile, tmpDir string, maxDuration time.Duration) ([]string, error)

// RealAudioTranscriber sends audio to Whisper in chunks of at most maxDuration.
// Chunk files are written to tmpDir, never next to the source file.
type RealAudioTranscriber struct {
	client TranscriptionCreator
	model  string
	tmpDir string
	split  splitFunc
}

func NewRealAudioTranscriber(client TranscriptionCreator, model, tmpDir string) *RealAudioTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &RealAudioTranscriber{client: client, model: model, tmpDir: tmpDir, split: splitAudio}
}

func (t *RealAudioTranscriber) TranscribeAudio(ctx context.Context, audioFile string, maxDuration time.Duration) (Transcript, error) {
	if _, err := os.Stat(audioFile); err != nil {
		return Transcript{}, fmt.Errorf("audio file %s: %w", audioFile, ErrFileNotFound)
	}
	log.Debugf("Attempting to transcribe: %s", audioFile)

	if err := os.MkdirAll(t.tmpDir, os.ModePerm); err != nil {
		return Transcript{}, fmt.Errorf("failed to create tmp directory: %w", err)
	}
	chunks, err := t.split(ctx, audioFile, t.tmpDir, maxDuration)
	defer func() {
		for _, chunk := range chunks {
			if err := os.Remove(chunk); err != nil && !os.IsNotExist(err) {
				log.Warnf("Failed to remove audio chunk %s: %v", chunk, err)
			}
		}
	}()
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to split audio: %w", err)
	}

	var (
		fullTranscription strings.Builder
		language          string
	)
	for i, chunk := range chunks {
		req := openai.AudioRequest{
			Model:    t.model,
			FilePath: chunk,
			Format:   openai.AudioResponseFormatVerboseJSON,
		}
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return Transcript{}, fmt.Errorf("transcription error on chunk %d: %w", i, err)
		}
		fullTranscription.WriteString(resp.Text)
		fullTranscription.WriteString(" ")

		if language == "" {
			language = NormalizeLanguage(resp.Language)
		}
	}

	transcription := strings.TrimSpace(fullTranscription.String())
	if language == "" {
		language = DetectLanguage(transcription)
	}

	log.WithFields(log.Fields{
		"file":     audioFile,
		"chunks":   len(chunks),
		"language": language,
	}).Debug("Transcription completed")

	return Transcript{Text: transcription, Language: language}, nil
}

// splitAudio cuts audioFile into WAV chunks named with a fresh uuid so that
// concurrent calls on the same file never share chunk paths.
func splitAudio(ctx context.Context, audioFile, tmpDir string, maxDuration time.Duration) ([]string, error) {
	var chunks []string

	duration, err := getAudioDuration(ctx, audioFile)
	if err != nil {
		return nil, err
	}

	numChunks := int(math.Ceil(duration.Seconds() / maxDuration.Seconds()))
	if numChunks < 1 {
		numChunks = 1
	}

	base := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	prefix := filepath.Join(tmpDir, base+"_"+uuid.NewString())

	for i := 0; i < numChunks; i++ {
		start := time.Duration(i) * maxDuration
		chunkFile := fmt.Sprintf("%s_chunk_%d.wav", prefix, i)

		cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", audioFile, "-ss", fmt.Sprintf("%f", start.Seconds()), "-t", fmt.Sprintf("%f", maxDuration.Seconds()), "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", chunkFile)
		if err := cmd.Run(); err != nil {
			return chunks, fmt.Errorf("failed to create audio chunk: %w", err)
		}

		chunks = append(chunks, chunkFile)
	}

	return chunks, nil
}

func getAudioDuration(ctx context.Context, audioFile string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", audioFile)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get audio duration: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := time.ParseDuration(fmt.Sprintf("%ss", durationStr))
	if err != nil {
		return 0, fmt.Errorf("failed to parse audio duration: %w", err)
	}

	return duration, nil
}
