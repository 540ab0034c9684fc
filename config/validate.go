package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}
	return nil
}

// ValidateFace checks the face verification server settings.
func (c *Config) ValidateFace() error {
	if c.Face.Addr == "" {
		return errors.New("face.addr is required")
	}
	if c.Face.Threshold <= 0 {
		return errors.New("face.threshold must be positive")
	}
	return nil
}

// ValidateProcess checks the settings needed by the query processing pipeline.
func (c *Config) ValidateProcess() error {
	if c.OpenAI.APIKey == "" {
		return errors.New("openai.api_key is required (set OPENAI_API_KEY)")
	}
	if c.Process.UploadDir == "" {
		return errors.New("process.upload_dir is required")
	}
	if c.Process.ChunkDuration <= 0 {
		return errors.New("process.chunk_duration must be positive")
	}
	if c.Process.RequestTimeout <= 0 {
		return errors.New("process.request_timeout must be positive")
	}
	if c.OpenAI.SentimentAttempts <= 0 {
		return errors.New("openai.sentiment_attempts must be a positive integer")
	}
	return nil
}
