package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	Face struct {
		Addr        string   `mapstructure:"addr"`
		Threshold   float64  `mapstructure:"threshold"`
		TmpDir      string   `mapstructure:"tmp_dir"`
		ModelDir    string   `mapstructure:"model_dir"` // dlib .dat files
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"face"`

	Process struct {
		Addr           string        `mapstructure:"addr"`
		UploadDir      string        `mapstructure:"upload_dir"`
		TmpDir         string        `mapstructure:"tmp_dir"`
		ChunkDuration  time.Duration `mapstructure:"chunk_duration"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
		CORSOrigins    []string      `mapstructure:"cors_origins"`
	} `mapstructure:"process"`

	OpenAI struct {
		APIKey             string `mapstructure:"api_key"`
		BaseURL            string `mapstructure:"base_url"`
		TranscriptionModel string `mapstructure:"transcription_model"`
		ChatModel          string `mapstructure:"chat_model"`
		SentimentAttempts  int    `mapstructure:"sentiment_attempts"`
	} `mapstructure:"openai"`

	Router struct {
		KeywordsFile string `mapstructure:"keywords_file"` // empty means the built-in table
	} `mapstructure:"router"`

	Risk struct {
		ModelFile string `mapstructure:"model_file"` // empty means the built-in model
	} `mapstructure:"risk"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("face.addr", "0.0.0.0:5005")
	v.SetDefault("face.threshold", 0.6)
	v.SetDefault("face.tmp_dir", ".tmp")
	v.SetDefault("face.model_dir", "models")
	v.SetDefault("face.cors_origins", []string{"*"})

	v.SetDefault("process.addr", "localhost:5001")
	v.SetDefault("process.upload_dir", "uploads")
	v.SetDefault("process.tmp_dir", ".tmp")
	v.SetDefault("process.chunk_duration", 5*time.Minute)
	v.SetDefault("process.request_timeout", 5*time.Minute)
	v.SetDefault("process.cors_origins", []string{"*"})

	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.transcription_model", "whisper-1")
	v.SetDefault("openai.chat_model", "gpt-3.5-turbo")
	v.SetDefault("openai.sentiment_attempts", 3)

	v.SetDefault("router.keywords_file", "")
	v.SetDefault("risk.model_file", "")
}

// LoadConfig reads config.yaml from path (or the working directory when path
// is empty) and overlays BANKDESK_* environment variables. A missing config
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BANKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The OpenAI key is also accepted under its conventional name.
	if err := v.BindEnv("openai.api_key", "BANKDESK_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding OPENAI_API_KEY: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &config, nil
}
