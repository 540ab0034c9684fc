package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
)

const sentimentPrompt = `Classify the sentiment of the following customer query as POSITIVE or NEGATIVE.
Respond with a JSON object of the form {"label": "POSITIVE", "score": 0.97} where score is your confidence between 0 and 1.

Query:
%s`

// ChatSentimentAnalyzer asks a chat model for a binary sentiment label and
// retries when the answer cannot be parsed.
type ChatSentimentAnalyzer struct {
	client   ChatCompletionCreator
	model    string
	attempts int
}

func NewChatSentimentAnalyzer(client ChatCompletionCreator, model string, attempts int) *ChatSentimentAnalyzer {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	if attempts < 1 {
		attempts = 3
	}
	return &ChatSentimentAnalyzer{client: client, model: model, attempts: attempts}
}

func (a *ChatSentimentAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	prompt := fmt.Sprintf(sentimentPrompt, text)

	var lastContent string
	for attempt := 0; attempt < a.attempts; attempt++ {
		req := openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a sentiment analysis model. Answer with JSON only.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
			MaxTokens:      30,
		}

		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return Sentiment{}, fmt.Errorf("sentiment analysis error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return Sentiment{}, fmt.Errorf("no choices returned from OpenAI")
		}

		lastContent = strings.TrimSpace(resp.Choices[0].Message.Content)
		if s, ok := parseSentiment(lastContent); ok {
			log.Debugf("Sentiment analysis result: %s (%.4f)", s.Label, s.Confidence)
			return s, nil
		}

		prompt += "\nRemember, respond with ONLY the JSON object, nothing else."
	}

	return Sentiment{}, fmt.Errorf("failed to get a valid sentiment after %d attempts, last response: %q", a.attempts, lastContent)
}

func parseSentiment(content string) (Sentiment, bool) {
	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Sentiment{}, false
	}
	label := strings.ToUpper(strings.TrimSpace(parsed.Label))
	if label != SentimentPositive && label != SentimentNegative {
		return Sentiment{}, false
	}
	if parsed.Score < 0 || parsed.Score > 1 {
		return Sentiment{}, false
	}
	return Sentiment{Label: label, Confidence: parsed.Score}, true
}
