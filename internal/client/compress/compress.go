// Package compress shrinks oversized images before they are uploaded.
package compress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
)

var ErrUnsupported = errors.New("unsupported image type")

// Compressor re-encodes a file into a smaller one.
type Compressor interface {
	Compress(ctx context.Context, file *models.SelectedFile) (*models.SelectedFile, error)
}

var eligibleTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/tiff": {},
}

// Eligible reports whether files of mimeType can be decoded and re-encoded.
func Eligible(mimeType string) bool {
	_, ok := eligibleTypes[models.BaseType(mimeType)]
	return ok
}

// ImagingCompressor re-encodes images as JPEG.
//
// Quality is a factor in (0, 1]. MaxWidth and MaxHeight bound the output size
// while keeping the aspect ratio; zero means unlimited. The result is never
// larger than the input: when re-encoding does not help, the original file is
// returned as is.
type ImagingCompressor struct {
	Quality   float64
	MaxWidth  int
	MaxHeight int
}

func NewImagingCompressor(quality float64, maxWidth, maxHeight int) *ImagingCompressor {
	return &ImagingCompressor{Quality: quality, MaxWidth: maxWidth, MaxHeight: maxHeight}
}

func (c *ImagingCompressor) Compress(ctx context.Context, file *models.SelectedFile) (*models.SelectedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !Eligible(file.MIME) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, file.MIME)
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file.Name, err)
	}

	b := img.Bounds()
	w, h := c.MaxWidth, c.MaxHeight
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	if b.Dx() > w || b.Dy() > h {
		img = imaging.Fit(img, w, h, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.jpegQuality())); err != nil {
		return nil, fmt.Errorf("encode %s: %w", file.Name, err)
	}

	if int64(buf.Len()) >= file.Size {
		return file, nil
	}
	return models.NewSelectedFile(jpegName(file.Name), "image/jpeg", buf.Bytes()), nil
}

func (c *ImagingCompressor) jpegQuality() int {
	q := int(math.Round(c.Quality * 100))
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

func jpegName(name string) string {
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return name
	}
	return strings.TrimSuffix(name, ext) + ".jpg"
}
