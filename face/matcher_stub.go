//go:build !dlib

package face

import (
	"context"
	"fmt"
)

// DlibMatcher is unavailable in builds without the dlib tag.
type DlibMatcher struct{}

func NewDlibMatcher(modelDir string) (*DlibMatcher, error) {
	return nil, fmt.Errorf("binary built without the dlib tag: %w", ErrUnavailable)
}

func (m *DlibMatcher) Distance(ctx context.Context, referencePath, inputPath string) (float64, error) {
	return 0, ErrUnavailable
}

func (m *DlibMatcher) Close() error {
	return nil
}
