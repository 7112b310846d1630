package uploads

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cennik/internal/logger"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_SaveImageFitsAndConverts(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, 100, logger.Nop())

	stored, err := s.SaveImage("Bizzarto", "Fotel Nidzica.png", pngBytes(t, 400, 200))
	require.NoError(t, err)

	assert.Equal(t, 100, stored.Width)
	assert.Equal(t, 50, stored.Height)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/images/bizzarto/fotel-nidzica-"))
	assert.True(t, strings.HasSuffix(stored.URL, ".jpg"))

	f, err := os.Open(stored.Path)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestStore_SaveImageKeepsSmallImages(t *testing.T) {
	s := NewStore(t.TempDir(), 1600, logger.Nop())
	stored, err := s.SaveImage("", "a.png", pngBytes(t, 40, 30))
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Width)
	assert.Equal(t, 30, stored.Height)
}

func TestStore_SaveImageRejectsGarbage(t *testing.T) {
	_, err := NewStore(t.TempDir(), 100, logger.Nop()).SaveImage("x", "a.png", []byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestStore_SavePDF(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, 100, logger.Nop())

	_, err := s.SavePDF("cennik.pdf", []byte("hello"))
	assert.ErrorIs(t, err, ErrInvalidFile)

	stored, err := s.SavePDF("../../Cennik Łódź.pdf", []byte("%PDF-1.4\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/pdf/cennik-lodz-"))
	assert.Equal(t, filepath.Join(dir, "pdf"), filepath.Dir(stored.Path))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "sofa-zolta_2", sanitize("  Sofa Żółta_2 "))
	assert.Equal(t, "", sanitize("!!!"))
}
