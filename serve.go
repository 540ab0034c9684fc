package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HugeFrog24/bankdesk/face"
	"github.com/HugeFrog24/bankdesk/metrics"
	"github.com/HugeFrog24/bankdesk/server"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newFaceServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "face-server",
		Short: "Serve POST /api/verify",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateFace(); err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.Face.TmpDir, os.ModePerm); err != nil {
				return err
			}

			var matcher face.Matcher
			dlib, err := face.NewDlibMatcher(a.cfg.Face.ModelDir)
			if err != nil {
				log.Warnf("Face recognition disabled: %v", err)
				matcher = face.MatcherFunc(func(ctx context.Context, referencePath, inputPath string) (float64, error) {
					return 0, face.ErrUnavailable
				})
			} else {
				defer dlib.Close()
				matcher = dlib
			}

			metrics.Init()
			verifier := face.NewVerifier(matcher, a.cfg.Face.TmpDir, a.cfg.Face.Threshold)
			return serve(cmd.Context(), a.cfg.Face.Addr, server.NewFaceServer(verifier, a.cfg.Face.CORSOrigins))
		},
	}
}

func (a *app) newProcessServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-server",
		Short: "Serve POST /process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateProcess(); err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.Process.UploadDir, os.ModePerm); err != nil {
				return err
			}
			pipeline, err := a.newPipeline()
			if err != nil {
				return err
			}

			if version, err := checkFFmpeg(cmd.Context()); err != nil {
				log.Warnf("ffmpeg check failed: %v", err)
			} else {
				log.Infof("Using %s", version)
			}

			metrics.Init()
			handler := server.NewProcessServer(pipeline, server.ProcessOptions{
				UploadDir:      a.cfg.Process.UploadDir,
				RequestTimeout: a.cfg.Process.RequestTimeout,
				CORSOrigins:    a.cfg.Process.CORSOrigins,
			})
			return serve(cmd.Context(), a.cfg.Process.Addr, handler)
		},
	}
}

// serve runs handler on addr until SIGINT or SIGTERM.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
