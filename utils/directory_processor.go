package utils

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const noAudioMarker = "No audio"

type QueryReport struct {
	XMLName xml.Name      `xml:"QueryReport"`
	Results []QueryResult `xml:"QueryResult"`
}

// ProcessDirectory runs every media file under dir through the pipeline and
// rewrites outputXML after each file. Files already present in an existing
// report are skipped.
func ProcessDirectory(ctx context.Context, dir string, outputXML string, pipeline *Pipeline) (QueryReport, error) {
	var report QueryReport

	if _, err := os.Stat(outputXML); err == nil {
		file, err := os.Open(outputXML)
		if err != nil {
			return QueryReport{}, fmt.Errorf("failed to open existing XML file: %w", err)
		}
		defer file.Close()

		if err := xml.NewDecoder(file).Decode(&report); err != nil {
			return QueryReport{}, fmt.Errorf("failed to decode existing XML: %w", err)
		}
	}

	processed := make(map[string]bool, len(report.Results))
	for _, result := range report.Results {
		processed[result.MediaFile] = true
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMedia(path) {
			return nil
		}
		if processed[path] {
			log.Infof("File '%s' already processed. Skipping...", path)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := pipeline.ProcessFile(ctx, path)
		if errors.Is(err, ErrNoAudio) {
			log.Infof("Skipping file '%s' as it has no audio stream", path)
			result = QueryResult{MediaFile: path, AudioFile: noAudioMarker}
		} else if err != nil {
			return fmt.Errorf("failed to process media file '%s': %w", path, err)
		}

		report.Results = append(report.Results, result)
		processed[path] = true

		if err := writeXMLFile(outputXML, report); err != nil {
			return fmt.Errorf("failed to write XML file: %w", err)
		}
		return nil
	})
	if err != nil {
		return QueryReport{}, err
	}

	return report, nil
}

func writeXMLFile(outputXML string, report QueryReport) error {
	file, err := os.Create(outputXML)
	if err != nil {
		return fmt.Errorf("failed to create XML file '%s': %w", outputXML, err)
	}
	defer file.Close()

	encoder := xml.NewEncoder(file)
	encoder.Indent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode XML to '%s': %w", outputXML, err)
	}

	if err := encoder.Flush(); err != nil {
		return fmt.Errorf("failed to flush XML encoder: %w", err)
	}

	log.Debugf("XML results written to %s", outputXML)
	return nil
}
