// Package transcode decides how an uploaded receipt is compressed before it
// reaches object storage. Files at or under the size threshold pass through
// untouched; larger images are resized and re-encoded as JPEG, larger PDFs
// are gzip-compressed, and anything else passes through because no strategy
// exists for it.
package transcode

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	// Registers the PNG decoder for image.Decode.
	_ "image/png"

	"golang.org/x/image/draw"
)

// Kind is the closed set of upload categories the pipeline distinguishes.
// It is produced once from the declared MIME type so the same string
// comparison chain is not repeated across create and update paths.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPDF
)

// KindFromMIME maps a declared MIME type onto a Kind.
// Accepted image types: image/jpeg, image/png, image/heic.
func KindFromMIME(mime string) Kind {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/png", "image/heic":
		return KindImage
	case "application/pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}

// Result carries the (possibly re-encoded) bytes plus the metadata the
// storage layer must record: the actual content type of the stored bytes and
// the file extension including the leading dot.
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
}

type Transcoder struct {
	threshold    int64 // bytes; files at or under this pass through
	maxDimension int   // longest image side after resize
	quality      int   // JPEG quality (1-100)
}

func New(threshold int64, maxDimension, quality int) *Transcoder {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	if maxDimension <= 0 {
		maxDimension = 1024
	}
	return &Transcoder{
		threshold:    threshold,
		maxDimension: maxDimension,
		quality:      quality,
	}
}

// Transcode applies the compression decision to data. declaredMIME is the
// upload's claimed content type and ext the lower-cased original extension
// with leading dot. The returned Result never aliases data.
//
// A decode failure on an oversized image aborts the operation; it must not
// silently degrade to passthrough.
func (t *Transcoder) Transcode(data []byte, declaredMIME, ext string) (*Result, error) {
	if int64(len(data)) <= t.threshold {
		return passthrough(data, declaredMIME, ext), nil
	}

	switch KindFromMIME(declaredMIME) {
	case KindImage:
		return t.recompressImage(data)
	case KindPDF:
		return gzipCompress(data, ext)
	default:
		// No known strategy for this type.
		return passthrough(data, declaredMIME, ext), nil
	}
}

func passthrough(data []byte, contentType, ext string) *Result {
	out := make([]byte, len(data))
	copy(out, data)
	return &Result{Data: out, ContentType: contentType, Extension: ext}
}

// recompressImage decodes the image, caps its longest dimension and
// re-encodes it as JPEG. The output is lossy and not guaranteed to land
// under the threshold, though in practice it does.
func (t *Transcoder) recompressImage(data []byte) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := t.capDimensions(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Extension:   ".jpg",
	}, nil
}

// capDimensions scales img down so that its longest side does not exceed
// maxDimension, preserving aspect ratio. Smaller images are returned as-is.
func (t *Transcoder) capDimensions(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}
	if longest <= t.maxDimension {
		return img
	}

	scale := float64(t.maxDimension) / float64(longest)
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func gzipCompress(data []byte, ext string) (*Result, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gzip: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "application/gzip",
		Extension:   ext + ".gz",
	}, nil
}
