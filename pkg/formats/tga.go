// Package formats provides readers and writers for the mesh, material and
// image files produced by a bake.
// TGA (Truevision) image encoder and decoder.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// tgaTopToBottom is descriptor bit 5: rows stored top row first.
const tgaTopToBottom = 0x20

// ErrInvalidTGA is returned for TGA data the decoder cannot read.
var ErrInvalidTGA = errors.New("invalid TGA data")

// EncodeTGA writes img as an uncompressed 24-bit top-to-bottom TGA.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("TGA dimensions %dx%d exceed 65535", width, height)
	}

	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 24
	header[17] = tgaTopToBottom
	if _, err := w.Write(header); err != nil {
		return err
	}

	row := make([]byte, width*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			i := (x - b.Min.X) * 3
			// TGA stores BGR
			row[i] = c.B
			row[i+1] = c.G
			row[i+2] = c.R
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// tgaHeader is the fixed 18-byte TGA header, reduced to what the decoder
// needs.
type tgaHeader struct {
	idLength      int
	imageType     byte
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("%w: data too short", ErrInvalidTGA)
	}
	h := tgaHeader{
		idLength:      int(data[0]),
		imageType:     data[2],
		width:         int(binary.LittleEndian.Uint16(data[12:14])),
		height:        int(binary.LittleEndian.Uint16(data[14:16])),
		bytesPerPixel: int(data[16]) / 8,
		topToBottom:   data[17]&tgaTopToBottom != 0,
	}
	switch {
	case data[1] != 0:
		return h, fmt.Errorf("%w: color-mapped TGA not supported", ErrInvalidTGA)
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return h, fmt.Errorf("%w: unsupported type %d", ErrInvalidTGA, h.imageType)
	case data[16] != 24 && data[16] != 32:
		return h, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidTGA, data[16])
	}
	return h, nil
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// data with 24 or 32 bits per pixel. Truncated pixel data is an error.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if 18+h.idLength > len(data) {
		return nil, fmt.Errorf("%w: truncated image ID", ErrInvalidTGA)
	}
	body := data[18+h.idLength:]

	n := h.width * h.height * h.bytesPerPixel
	raw := body
	if h.imageType == TGATypeRLE {
		if raw, err = unpackTGARLE(body, n, h.bytesPerPixel); err != nil {
			return nil, err
		}
	}
	if len(raw) < n {
		return nil, fmt.Errorf("%w: pixel data truncated", ErrInvalidTGA)
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	for y := 0; y < h.height; y++ {
		src := raw[y*h.width*h.bytesPerPixel:]
		dstY := y
		if !h.topToBottom {
			dstY = h.height - 1 - y
		}
		dst := img.Pix[dstY*img.Stride:]
		for x := 0; x < h.width; x++ {
			px := src[x*h.bytesPerPixel:]
			o := x * 4
			dst[o], dst[o+1], dst[o+2], dst[o+3] = px[2], px[1], px[0], 255
			if h.bytesPerPixel == 4 {
				dst[o+3] = px[3]
			}
		}
	}
	return img, nil
}

// unpackTGARLE expands RLE packets into n bytes of raw pixel data.
func unpackTGARLE(src []byte, n, bpp int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if len(src) == 0 {
			return nil, fmt.Errorf("%w: RLE data truncated", ErrInvalidTGA)
		}
		packet := src[0]
		src = src[1:]
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if len(src) < bpp {
				return nil, fmt.Errorf("%w: RLE data truncated", ErrInvalidTGA)
			}
			for i := 0; i < count; i++ {
				out = append(out, src[:bpp]...)
			}
			src = src[bpp:]
			continue
		}
		if len(src) < count*bpp {
			return nil, fmt.Errorf("%w: RLE data truncated", ErrInvalidTGA)
		}
		out = append(out, src[:count*bpp]...)
		src = src[count*bpp:]
	}
	return out[:n], nil
}
