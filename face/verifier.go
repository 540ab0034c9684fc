// Package face compares a captured face image with a reference image.
package face

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultThreshold is the usual cut-off for dlib's 128-d face descriptors.
const DefaultThreshold = 0.6

// Matcher returns the distance between the faces found in two image files.
// It returns an error wrapping ErrNoFace when either image holds no face.
type Matcher interface {
	Distance(ctx context.Context, referencePath, inputPath string) (float64, error)
}

type Result struct {
	Verified  bool    `json:"verified"`
	Distance  float64 `json:"distance"`
	Threshold float64 `json:"threshold"`
}

type Verifier struct {
	matcher   Matcher
	tmpDir    string
	threshold float64
}

func NewVerifier(matcher Matcher, tmpDir string, threshold float64) *Verifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Verifier{matcher: matcher, tmpDir: tmpDir, threshold: threshold}
}

func (v *Verifier) Threshold() float64 {
	return v.threshold
}

// Verify decodes both images, writes them to uniquely named temp files and
// asks the matcher for their distance. The temp files are always removed.
func (v *Verifier) Verify(ctx context.Context, imageB64, referenceB64 string) (Result, error) {
	img, err := DecodeBase64Image(imageB64)
	if err != nil {
		return Result{}, fmt.Errorf("image: %w", err)
	}
	reference, err := DecodeBase64Image(referenceB64)
	if err != nil {
		return Result{}, fmt.Errorf("reference image: %w", err)
	}

	if err := os.MkdirAll(v.tmpDir, os.ModePerm); err != nil {
		return Result{}, fmt.Errorf("failed to create tmp directory: %w", err)
	}
	id := uuid.NewString()
	inputPath := filepath.Join(v.tmpDir, "input_face_"+id+".jpg")
	referencePath := filepath.Join(v.tmpDir, "reference_face_"+id+".jpg")
	defer removeQuietly(inputPath)
	defer removeQuietly(referencePath)

	if err := writeJPEG(img, inputPath); err != nil {
		return Result{}, err
	}
	if err := writeJPEG(reference, referencePath); err != nil {
		return Result{}, err
	}

	distance, err := v.matcher.Distance(ctx, referencePath, inputPath)
	if err != nil {
		if errors.Is(err, ErrUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", ErrDetection, err)
	}

	result := Result{
		Verified:  distance <= v.threshold,
		Distance:  distance,
		Threshold: v.threshold,
	}
	log.WithFields(log.Fields{
		"distance":  result.Distance,
		"threshold": result.Threshold,
		"verified":  result.Verified,
	}).Info("Face verification completed")
	return result, nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to remove temp file %s: %v", path, err)
	}
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(ctx context.Context, referencePath, inputPath string) (float64, error)

func (f MatcherFunc) Distance(ctx context.Context, referencePath, inputPath string) (float64, error) {
	return f(ctx, referencePath, inputPath)
}
