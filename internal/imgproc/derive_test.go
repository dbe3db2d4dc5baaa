package imgproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodePNG renders a w x h gradient image as PNG bytes.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestDerive_WideSource(t *testing.T) {
	src := encodePNG(t, 400, 200)

	d, err := Derive(src, "ufo.png")
	require.NoError(t, err)

	w, h := decodeSize(t, d.Square)
	assert.Equal(t, SquareSize, w)
	assert.Equal(t, SquareSize, h)

	tw, th := decodeSize(t, d.Thumbnail)
	assert.Equal(t, tw, th, "thumbnail derived from the square must stay square")
	assert.LessOrEqual(t, tw, ThumbnailSize)

	assert.Equal(t, "ufo_sq1024.png", d.SquareName)
	assert.Equal(t, "ufo_thumb.png", d.ThumbnailName)
}

func TestDerive_TallSource(t *testing.T) {
	src := encodePNG(t, 120, 600)

	d, err := Derive(src, "tall.png")
	require.NoError(t, err)

	w, h := decodeSize(t, d.Square)
	assert.Equal(t, SquareSize, w)
	assert.Equal(t, SquareSize, h)

	tw, th := decodeSize(t, d.Thumbnail)
	assert.LessOrEqual(t, tw, ThumbnailSize)
	assert.LessOrEqual(t, th, ThumbnailSize)
}

func TestDerive_CorruptSource(t *testing.T) {
	_, err := Derive([]byte("definitely not an image"), "bad.png")
	assert.Error(t, err)
}

func TestDerive_UnsupportedFormatName(t *testing.T) {
	// Correct PNG bytes but the name only drives artifact naming,
	// decode drives the format, so a mismatched extension still works.
	src := encodePNG(t, 64, 64)
	d, err := Derive(src, "misnamed.jpg")
	require.NoError(t, err)
	assert.Equal(t, "misnamed_sq1024.jpg", d.SquareName)
}

func TestBound_SmallSourceUnchanged(t *testing.T) {
	src := encodePNG(t, 50, 50)
	out, err := Bound(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestBound_OversizedSourceScaled(t *testing.T) {
	// Random noise compresses badly, so a 1200x1200 PNG lands well over 2 MiB.
	rng := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, 1200, 1200))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	src := buf.Bytes()
	require.Greater(t, len(src), MaxSourceBytes, "fixture must exceed the threshold")

	out, err := Bound(src)
	require.NoError(t, err)

	ratio := math.Sqrt(float64(MaxSourceBytes) / float64(len(src)))
	wantW := int(1200 * ratio)
	wantH := int(1200 * ratio)
	w, h := decodeSize(t, out)
	assert.Equal(t, wantW, w)
	assert.Equal(t, wantH, h)
}

func TestArtifactNames(t *testing.T) {
	assert.Equal(t, "a/b/pic_sq1024.jpeg", SquareName("a/b/pic.jpeg"))
	assert.Equal(t, "pic_thumb.jpg", ThumbnailName("pic.jpg"))
	assert.Equal(t, "noext_thumb", ThumbnailName("noext"))
}
