package transcode

import (
	"bytes"
	"compress/gzip"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testThreshold    = 1024
	testMaxDimension = 100
	testQuality      = 80
)

func newTestTranscoder() *Transcoder {
	return New(testThreshold, testMaxDimension, testQuality)
}

// noisyPNG encodes a width x height PNG of random pixels. Noise defeats PNG
// compression, so even small dimensions comfortably exceed the test
// threshold.
func noisyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	rng := rand.New(rand.NewSource(7))
	_, err := rng.Read(data)
	require.NoError(t, err)
	return data
}

func TestKindFromMIME(t *testing.T) {
	assert.Equal(t, KindImage, KindFromMIME("image/jpeg"))
	assert.Equal(t, KindImage, KindFromMIME("image/png"))
	assert.Equal(t, KindImage, KindFromMIME("image/heic"))
	assert.Equal(t, KindImage, KindFromMIME(" IMAGE/PNG "))
	assert.Equal(t, KindPDF, KindFromMIME("application/pdf"))
	assert.Equal(t, KindUnsupported, KindFromMIME("application/zip"))
	assert.Equal(t, KindUnsupported, KindFromMIME(""))
	assert.Equal(t, KindUnsupported, KindFromMIME("image/gif"))
}

func TestTranscodeSmallFilePassesThrough(t *testing.T) {
	tc := newTestTranscoder()
	data := randomBytes(t, testThreshold) // exactly at the threshold

	res, err := tc.Transcode(data, "application/pdf", ".pdf")
	require.NoError(t, err)

	assert.Equal(t, data, res.Data)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, ".pdf", res.Extension)

	// Result must not alias the caller's buffer.
	data[0] ^= 0xFF
	assert.NotEqual(t, data[0], res.Data[0])
}

func TestTranscodeLargeImageRecompressed(t *testing.T) {
	tc := newTestTranscoder()
	src := noisyPNG(t, 400, 200)
	require.Greater(t, int64(len(src)), int64(testThreshold))

	res, err := tc.Transcode(src, "image/png", ".png")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, ".jpg", res.Extension)

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	bounds := img.Bounds()
	// Aspect ratio preserved: 400x200 capped at 100 gives 100x50.
	assert.Equal(t, testMaxDimension, bounds.Dx())
	assert.Equal(t, 50, bounds.Dy())
}

func TestTranscodeSmallImageDimensionsKept(t *testing.T) {
	tc := newTestTranscoder()
	src := noisyPNG(t, 80, 60)
	require.Greater(t, int64(len(src)), int64(testThreshold))

	res, err := tc.Transcode(src, "image/png", ".png")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestTranscodeLargePDFGzipped(t *testing.T) {
	tc := newTestTranscoder()
	src := randomBytes(t, testThreshold+512)

	res, err := tc.Transcode(src, "application/pdf", ".pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/gzip", res.ContentType)
	assert.Equal(t, ".pdf.gz", res.Extension)

	zr, err := gzip.NewReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer zr.Close()
	restored, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, src, restored)
}

func TestTranscodeUnsupportedTypePassesThrough(t *testing.T) {
	tc := newTestTranscoder()
	src := randomBytes(t, testThreshold+512)

	res, err := tc.Transcode(src, "application/zip", ".zip")
	require.NoError(t, err)

	assert.Equal(t, src, res.Data)
	assert.Equal(t, "application/zip", res.ContentType)
	assert.Equal(t, ".zip", res.Extension)
}

func TestTranscodeCorruptImageFails(t *testing.T) {
	tc := newTestTranscoder()
	src := randomBytes(t, testThreshold+512)

	_, err := tc.Transcode(src, "image/jpeg", ".jpg")
	assert.Error(t, err, "an undecodable oversized image must not fall back to passthrough")
}

func TestNewClampsBadOptions(t *testing.T) {
	tc := New(testThreshold, 0, 0)
	assert.Equal(t, 1024, tc.maxDimension)
	assert.Equal(t, 80, tc.quality)

	tc = New(testThreshold, 512, 200)
	assert.Equal(t, 512, tc.maxDimension)
	assert.Equal(t, 80, tc.quality)
}
