// Package formats provides readers and writers for the mesh, material and
// image files produced by a bake.
// Lossless image encoders for baked textures.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedImageFormat is returned for unknown format names.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// ImageFormat names a lossless RGB image encoding.
type ImageFormat string

// Supported image formats.
const (
	ImagePNG  ImageFormat = "png"
	ImageBMP  ImageFormat = "bmp"
	ImageTIFF ImageFormat = "tiff"
	ImageTGA  ImageFormat = "tga"
)

// ParseImageFormat accepts a format name or file extension ("png", ".tif").
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png", "":
		return ImagePNG, nil
	case "bmp":
		return ImageBMP, nil
	case "tif", "tiff":
		return ImageTIFF, nil
	case "tga":
		return ImageTGA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, s)
	}
}

// Ext returns the file extension including the dot.
func (f ImageFormat) Ext() string {
	return "." + string(f)
}

// EncodeImage writes img in format f.
func EncodeImage(w io.Writer, img image.Image, f ImageFormat) error {
	switch f {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageBMP:
		return bmp.Encode(w, img)
	case ImageTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ImageTGA:
		return EncodeTGA(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, f)
	}
}

// DecodeImage reads an image stored in format f.
func DecodeImage(r io.Reader, f ImageFormat) (image.Image, error) {
	switch f {
	case ImagePNG:
		return png.Decode(r)
	case ImageBMP:
		return bmp.Decode(r)
	case ImageTIFF:
		return tiff.Decode(r)
	case ImageTGA:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return DecodeTGA(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, f)
	}
}

// EncodePNG returns img encoded as PNG bytes.
func EncodePNG(img image.Image) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &buf, nil
}
