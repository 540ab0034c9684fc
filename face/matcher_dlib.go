//go:build dlib

package face

import (
	"context"
	"fmt"
	"math"
	"sync"

	goface "github.com/Kagami/go-face"
)

// DlibMatcher computes Euclidean distances between dlib face descriptors.
// The underlying recognizer is not goroutine-safe, so calls are serialised.
type DlibMatcher struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// NewDlibMatcher loads the dlib models (shape predictor, ResNet and CNN face
// detector .dat files) from modelDir.
func NewDlibMatcher(modelDir string) (*DlibMatcher, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load face models from %s: %w", modelDir, err)
	}
	return &DlibMatcher{rec: rec}, nil
}

func (m *DlibMatcher) Distance(ctx context.Context, referencePath, inputPath string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	reference, err := m.descriptor(referencePath)
	if err != nil {
		return 0, fmt.Errorf("reference image: %w", err)
	}
	input, err := m.descriptor(inputPath)
	if err != nil {
		return 0, fmt.Errorf("image: %w", err)
	}
	return euclidean(reference, input), nil
}

func (m *DlibMatcher) descriptor(path string) (goface.Descriptor, error) {
	f, err := m.rec.RecognizeSingleFile(path)
	if err != nil {
		return goface.Descriptor{}, fmt.Errorf("face recognition failed: %w", err)
	}
	if f == nil {
		return goface.Descriptor{}, ErrNoFace
	}
	return f.Descriptor, nil
}

func (m *DlibMatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec.Close()
	return nil
}

func euclidean(a, b goface.Descriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
