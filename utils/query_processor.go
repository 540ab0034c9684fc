package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HugeFrog24/bankdesk/metrics"
	"github.com/HugeFrog24/bankdesk/router"
)

var ErrNoAudio = errors.New("media file has no audio stream")

const defaultChunkDuration = 5 * time.Minute

// QueryResult is the outcome of running one recorded query through the pipeline.
type QueryResult struct {
	MediaFile      string  `xml:"MediaFile"`
	AudioFile      string  `xml:"AudioFile,omitempty"`
	Transcription  string  `xml:"Transcription"`
	Language       string  `xml:"Language,omitempty"`
	TranslatedText string  `xml:"TranslatedText,omitempty"`
	Rejected       bool    `xml:"Rejected"`
	RejectReason   string  `xml:"RejectReason,omitempty"`
	Sentiment      string  `xml:"Sentiment,omitempty"`
	Confidence     float64 `xml:"Confidence,omitempty"`
	Department     string  `xml:"Department,omitempty"`
}

// Pipeline turns a recorded customer query into a routed, sentiment-tagged
// result: transcribe, translate to English, filter, classify.
type Pipeline struct {
	Extractor     AudioExtractor
	Transcriber   AudioTranscriber
	Translator    Translator
	Sentiment     SentimentAnalyzer
	Router        *router.Router
	TmpDir        string
	ChunkDuration time.Duration
}

func (p *Pipeline) ProcessFile(ctx context.Context, mediaFile string) (QueryResult, error) {
	if _, err := os.Stat(mediaFile); err != nil {
		return QueryResult{}, fmt.Errorf("%s: %w", mediaFile, ErrFileNotFound)
	}

	result := QueryResult{MediaFile: mediaFile}
	logger := log.WithField("file", mediaFile)

	audioFile := mediaFile
	if IsVideo(mediaFile) {
		extracted, err := p.extractAudio(ctx, mediaFile)
		if err != nil {
			return QueryResult{}, err
		}
		defer os.Remove(extracted)
		audioFile = extracted
		result.AudioFile = extracted
	}

	chunkDuration := p.ChunkDuration
	if chunkDuration <= 0 {
		chunkDuration = defaultChunkDuration
	}
	transcript, err := p.Transcriber.TranscribeAudio(ctx, audioFile, chunkDuration)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	result.Transcription = transcript.Text
	result.Language = transcript.Language
	logger.WithField("language", transcript.Language).Debugf("Transcription completed: %s", transcript.Text)

	translated := p.translate(ctx, transcript, logger)

	decision := p.Router.Route(translated)
	if decision.Rejected() {
		logger.Warnf("Inappropriate content detected: '%s'", decision.Filter.Keyword)
		metrics.RecordRejection(decision.Filter.Keyword)
		result.Rejected = true
		result.RejectReason = decision.Filter.Reason
		return result, nil
	}
	result.TranslatedText = translated

	sentiment, err := p.Sentiment.AnalyzeSentiment(ctx, translated)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to analyze sentiment: %w", err)
	}
	result.Sentiment = sentiment.Label
	result.Confidence = sentiment.Confidence

	if decision.Routed {
		result.Department = decision.Department
	}
	metrics.RecordRoute(result.Department)
	logger.WithFields(log.Fields{
		"department": result.Department,
		"scores":     decision.Scores,
	}).Debug("Department classified")

	return result, nil
}

func (p *Pipeline) extractAudio(ctx context.Context, videoFile string) (string, error) {
	tmpDir := p.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if err := os.MkdirAll(tmpDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create tmp directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoFile), filepath.Ext(videoFile))
	audioFile := filepath.Join(tmpDir, fmt.Sprintf("%s_%s.wav", base, uuid.NewString()))

	hasAudio, err := p.Extractor.ExtractAudio(ctx, videoFile, audioFile)
	if err != nil {
		os.Remove(audioFile)
		return "", fmt.Errorf("failed to extract audio: %w", err)
	}
	if !hasAudio {
		os.Remove(audioFile)
		return "", fmt.Errorf("%s: %w", videoFile, ErrNoAudio)
	}
	return audioFile, nil
}

// translate falls back to the original transcription when translation fails.
func (p *Pipeline) translate(ctx context.Context, transcript Transcript, logger *log.Entry) string {
	if p.Translator == nil {
		return transcript.Text
	}
	translated, err := p.Translator.Translate(ctx, transcript.Text, transcript.Language)
	if err != nil {
		logger.Errorf("Translation error: %v", err)
		return transcript.Text
	}
	return translated
}
