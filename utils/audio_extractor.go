package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrFFmpegMissing = errors.New("ffmpeg is not installed or not in PATH")

var videoExtensions = map[string]bool{".mp4": true, ".avi": true, ".mov": true}

var mediaExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true,
	".mp3": true, ".wav": true, ".m4a": true, ".webm": true, ".ogg": true, ".flac": true,
}

// IsVideo reports whether path has a video extension whose audio track must be
// extracted before transcription.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsMedia reports whether path looks like an audio or video upload.
func IsMedia(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

type RealAudioExtractor struct{}

// ExtractAudio writes a 16 kHz mono WAV of videoFile's audio track. It returns
// false without an error when the video has no audio stream.
func (RealAudioExtractor) ExtractAudio(ctx context.Context, videoFile, audioFile string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", videoFile, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", audioFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		stderrStr := stderr.String()
		if strings.Contains(stderrStr, "Output file does not contain any stream") ||
			strings.Contains(stderrStr, "does not contain any stream") {
			return false, nil
		}
		return false, fmt.Errorf("ffmpeg error: %w\nStderr: %s", err, stderrStr)
	}

	return true, nil
}

// CheckFFmpeg returns the first line of `ffmpeg -version`.
func CheckFFmpeg(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ffmpeg", "-version").Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", ErrFFmpegMissing
		}
		return "", fmt.Errorf("ffmpeg check failed: %w", err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	log.Debugf("ffmpeg check passed: %s", first)
	return first, nil
}
