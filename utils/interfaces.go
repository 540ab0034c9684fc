package utils

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoFile, audioFile string) (bool, error)
}

type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audioFile string, maxDuration time.Duration) (Transcript, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) (string, error)
}

type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
}

// ChatCompletionCreator is the part of the OpenAI client used for chat models.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TranscriptionCreator is the part of the OpenAI client used for Whisper.
type TranscriptionCreator interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Transcript is speech-to-text output. Language is an ISO 639-1 code.
type Transcript struct {
	Text     string
	Language string
}

// Sentiment is a polarity label with the model's confidence in [0, 1].
type Sentiment struct {
	Label      string
	Confidence float64
}
