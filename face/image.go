package face

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"
)

var (
	ErrInvalidImage = errors.New("invalid image data")
	ErrNoFace       = errors.New("no face detected")
	ErrDetection    = errors.New("face detection error")
	ErrUnavailable  = errors.New("face recognition backend unavailable")
)

// DecodeBase64Image decodes a base64 image, with or without a
// "data:image/...;base64," prefix.
func DecodeBase64Image(data string) (image.Image, error) {
	if _, payload, found := strings.Cut(data, ","); found {
		data = payload
	}
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

func writeJPEG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 95}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
