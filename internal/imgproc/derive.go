// Package imgproc generates image derivatives for item pictures:
// a centered square crop at a fixed edge and a bounded thumbnail.
// All functions are pure over byte slices; storage is the caller's job.
package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// SquareSize is the edge length of the square derivative.
	SquareSize = 1024
	// ThumbnailSize bounds both thumbnail dimensions.
	ThumbnailSize = 150
	// MaxSourceBytes is the source size threshold for Bound.
	MaxSourceBytes = 2 << 20

	squareQuality = 90
	thumbQuality  = 85
	boundQuality  = 90
)

// Derived holds the two generated artifacts with their deterministic names.
type Derived struct {
	Square        []byte
	SquareName    string
	Thumbnail     []byte
	ThumbnailName string
}

// SquareName derives the square artifact name: <base>_sq1024<ext>.
func SquareName(fileName string) string {
	base, ext := splitName(fileName)
	return fmt.Sprintf("%s_sq%d%s", base, SquareSize, ext)
}

// ThumbnailName derives the thumbnail artifact name: <base>_thumb<ext>.
func ThumbnailName(fileName string) string {
	base, ext := splitName(fileName)
	return base + "_thumb" + ext
}

func splitName(fileName string) (base, ext string) {
	ext = filepath.Ext(fileName)
	return strings.TrimSuffix(fileName, ext), ext
}

// Derive decodes src and produces the square and thumbnail derivatives.
// The crop is centered: left=(w-size)/2, top=(h-size)/2 with size=min(w,h).
// The thumbnail is computed from the square, not the raw original, so it is
// always square itself. The original encoding format is preserved.
func Derive(src []byte, fileName string) (*Derived, error) {
	img, formatName, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return nil, fmt.Errorf("unsupported format %q for %s: %w", formatName, fileName, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	size := w
	if h < w {
		size = h
	}
	left := (w - size) / 2
	top := (h - size) / 2
	cropped := imaging.Crop(img, image.Rect(b.Min.X+left, b.Min.Y+top, b.Min.X+left+size, b.Min.Y+top+size))

	square := imaging.Resize(cropped, SquareSize, SquareSize, imaging.Lanczos)
	squareBytes, err := encode(square, format, squareQuality)
	if err != nil {
		return nil, fmt.Errorf("encode square for %s: %w", fileName, err)
	}

	thumb := imaging.Fit(square, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	thumbBytes, err := encode(thumb, format, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail for %s: %w", fileName, err)
	}

	return &Derived{
		Square:        squareBytes,
		SquareName:    SquareName(fileName),
		Thumbnail:     thumbBytes,
		ThumbnailName: ThumbnailName(fileName),
	}, nil
}

// Bound enforces the source size threshold. Oversized images are scaled
// down linearly by ratio = sqrt(MaxSourceBytes/len(src)) and re-encoded.
// Sources within the threshold are returned unchanged.
func Bound(src []byte) ([]byte, error) {
	if len(src) <= MaxSourceBytes {
		return src, nil
	}
	img, formatName, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode oversized image: %w", err)
	}
	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return nil, fmt.Errorf("unsupported format %q: %w", formatName, err)
	}

	ratio := math.Sqrt(float64(MaxSourceBytes) / float64(len(src)))
	if ratio > 1 {
		ratio = 1
	}
	b := img.Bounds()
	newW := int(float64(b.Dx()) * ratio)
	newH := int(float64(b.Dy()) * ratio)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)
	return encode(resized, format, boundQuality)
}

func encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
