package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HugeFrog24/bankdesk/utils"
)

var checkFFmpeg = utils.CheckFFmpeg

func (a *app) newOpenAIClient() *openai.Client {
	clientConfig := openai.DefaultConfig(a.cfg.OpenAI.APIKey)
	if a.cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = a.cfg.OpenAI.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

func (a *app) newPipeline() (*utils.Pipeline, error) {
	rt, err := a.loadRouter()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.cfg.Process.TmpDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", a.cfg.Process.TmpDir, err)
	}

	client := a.newOpenAIClient()
	return &utils.Pipeline{
		Extractor:     utils.RealAudioExtractor{},
		Transcriber:   utils.NewRealAudioTranscriber(client, a.cfg.OpenAI.TranscriptionModel, a.cfg.Process.TmpDir),
		Translator:    utils.NewChatTranslator(client, a.cfg.OpenAI.ChatModel),
		Sentiment:     utils.NewChatSentimentAnalyzer(client, a.cfg.OpenAI.ChatModel, a.cfg.OpenAI.SentimentAttempts),
		Router:        rt,
		TmpDir:        a.cfg.Process.TmpDir,
		ChunkDuration: a.cfg.Process.ChunkDuration,
	}, nil
}

func (a *app) newProcessCmd() *cobra.Command {
	var dir, out string

	cmd := &cobra.Command{
		Use:   "process [media_file]",
		Short: "Run recorded queries through transcription, translation and routing",
		Args: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) != 1 {
				return errors.New("expected a media file or --dir")
			}
			if dir != "" && len(args) != 0 {
				return errors.New("a media file and --dir are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateProcess(); err != nil {
				return err
			}
			pipeline, err := a.newPipeline()
			if err != nil {
				return err
			}

			tmpDir := a.cfg.Process.TmpDir
			cleanupTmpDir(tmpDir)
			defer cleanupTmpDir(tmpDir)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)
			go func() {
				select {
				case <-sigs:
					log.Warn("Received interrupt signal, cleaning up...")
					cancel()
				case <-ctx.Done():
				}
			}()

			if dir != "" {
				report, err := utils.ProcessDirectory(ctx, dir, out, pipeline)
				if err != nil {
					return err
				}
				log.Infof("Wrote %d results to %s", len(report.Results), out)
				return nil
			}

			result, err := pipeline.ProcessFile(ctx, args[0])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "process every media file under this directory")
	cmd.Flags().StringVar(&out, "out", "report.xml", "XML report written in --dir mode")
	return cmd
}

func printResult(w io.Writer, result utils.QueryResult) {
	fmt.Fprintln(w, "Transcription:", result.Transcription)
	fmt.Fprintln(w, "Language:", result.Language)
	if result.TranslatedText != "" && result.TranslatedText != result.Transcription {
		fmt.Fprintln(w, "Translation:", result.TranslatedText)
	}
	if result.Rejected {
		fmt.Fprintln(w, result.RejectReason)
		return
	}
	fmt.Fprintf(w, "Sentiment: %s (%.2f)\n", result.Sentiment, result.Confidence)
	department := result.Department
	if department == "" {
		department = "none"
	}
	fmt.Fprintln(w, "Department:", department)
}
