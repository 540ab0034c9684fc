package utils

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const maxChunkSize = 8000

// ChatTranslator translates transcripts to English with a chat model. Long
// transcripts are split on word boundaries and translated chunk by chunk.
type ChatTranslator struct {
	client ChatCompletionCreator
	model  string
}

func NewChatTranslator(client ChatCompletionCreator, model string) *ChatTranslator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &ChatTranslator{client: client, model: model}
}

// Translate returns text unchanged when sourceLang is English.
func (t *ChatTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	if IsEnglish(sourceLang) || strings.TrimSpace(text) == "" {
		return text, nil
	}
	log.Debugf("Translating text from %s to English", sourceLang)

	chunks := splitTextIntoChunks(text, maxChunkSize)
	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := t.translateChunk(ctx, chunk, sourceLang)
		if err != nil {
			return "", fmt.Errorf("error translating chunk %d: %w", i, err)
		}
		translated = append(translated, out)
	}

	result := strings.Join(translated, " ")
	log.Debugf("Translation result: %s", result)
	return result, nil
}

func (t *ChatTranslator) translateChunk(ctx context.Context, chunk, sourceLang string) (string, error) {
	source := sourceLang
	if source == "" {
		source = "the detected language"
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a translation engine for a bank's customer support desk. Translate the user's text into English. Reply with the translation only, without quotes or commentary.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Source language: %s\n\n%s", source, chunk),
			},
		},
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func splitTextIntoChunks(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	wordsPerChunk := int(math.Ceil(float64(len(words)) / math.Ceil(float64(len(text))/float64(chunkSize))))

	var chunks []string
	for i := 0; i < len(words); i += wordsPerChunk {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return chunks
}
