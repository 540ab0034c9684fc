package utils

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type MockAudioExtractor struct {
	ExtractAudioFunc func(ctx context.Context, videoFile, audioFile string) (bool, error)
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, videoFile, audioFile string) (bool, error) {
	return m.ExtractAudioFunc(ctx, videoFile, audioFile)
}

type MockAudioTranscriber struct {
	TranscribeAudioFunc func(ctx context.Context, audioFile string, maxDuration time.Duration) (Transcript, error)
}

func (m *MockAudioTranscriber) TranscribeAudio(ctx context.Context, audioFile string, maxDuration time.Duration) (Transcript, error) {
	return m.TranscribeAudioFunc(ctx, audioFile, maxDuration)
}

type MockTranslator struct {
	TranslateFunc func(ctx context.Context, text, sourceLang string) (string, error)
}

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	return m.TranslateFunc(ctx, text, sourceLang)
}

type MockSentimentAnalyzer struct {
	AnalyzeSentimentFunc func(ctx context.Context, text string) (Sentiment, error)
}

func (m *MockSentimentAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	return m.AnalyzeSentimentFunc(ctx, text)
}

// MockChatClient replays Responses in order and records every request.
type MockChatClient struct {
	Responses []string
	Err       error
	Requests  []openai.ChatCompletionRequest
}

func (m *MockChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return openai.ChatCompletionResponse{}, m.Err
	}
	if len(m.Responses) == 0 {
		return openai.ChatCompletionResponse{}, nil
	}
	content := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}, nil
}

type MockTranscriptionClient struct {
	CreateTranscriptionFunc func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

func (m *MockTranscriptionClient) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	return m.CreateTranscriptionFunc(ctx, req)
}
