package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("No .env file found")
		} else {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func cleanupTmpDir(tmpDir string) {
	files, err := os.ReadDir(tmpDir)
	if err != nil {
		log.Warnf("Failed to read %s directory: %v", tmpDir, err)
		return
	}

	for _, file := range files {
		if err := os.RemoveAll(filepath.Join(tmpDir, file.Name())); err != nil {
			log.Warnf("Failed to remove file %s: %v", file.Name(), err)
		}
	}
}
