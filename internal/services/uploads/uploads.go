// Package uploads stores product images and price-list PDFs under the upload
// directory and returns their public URLs.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"cennik/internal/logger"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// URLPrefix is where the API serves UploadDir.
	URLPrefix = "/uploads"

	jpegQuality = 85
)

var ErrInvalidFile = errors.New("invalid upload")

type Store struct {
	dir    string
	maxDim int
	logger *logger.Logger
}

func NewStore(dir string, maxDimension int, logger *logger.Logger) *Store {
	return &Store{dir: dir, maxDim: maxDimension, logger: logger}
}

// Stored describes a file written to the upload directory.
type Stored struct {
	URL    string `json:"url"`
	Path   string `json:"-"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Size   int    `json:"size"`
}

// SaveImage decodes an uploaded image, applies its EXIF orientation, fits it
// into the configured bounding box and stores it as JPEG.
func (s *Store) SaveImage(producer, filename string, data []byte) (*Stored, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidFile, err)
	}

	bounds := img.Bounds()
	if s.maxDim > 0 && (bounds.Dx() > s.maxDim || bounds.Dy() > s.maxDim) {
		s.logger.Debug("Resizing image %s: %dx%d into %d", filename, bounds.Dx(), bounds.Dy(), s.maxDim)
		img = imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	stored, err := s.write(filepath.Join("images", sanitize(producer)), filename, ".jpg", buf.Bytes())
	if err != nil {
		return nil, err
	}
	stored.Width = img.Bounds().Dx()
	stored.Height = img.Bounds().Dy()

	s.logger.Info("Image stored: %s (%dx%d, %d bytes)", stored.URL, stored.Width, stored.Height, stored.Size)
	return stored, nil
}

// SavePDF stores a raw PDF upload.
func (s *Store) SavePDF(filename string, data []byte) (*Stored, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: not a PDF file", ErrInvalidFile)
	}
	stored, err := s.write("pdf", filename, ".pdf", data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("PDF stored: %s (%d bytes)", stored.URL, stored.Size)
	return stored, nil
}

func (s *Store) write(subdir, filename, ext string, data []byte) (*Stored, error) {
	dir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	base := sanitize(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "plik"
	}
	name := fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &Stored{
		URL:  URLPrefix + "/" + filepath.ToSlash(filepath.Join(subdir, name)),
		Path: path,
		Size: len(data),
	}, nil
}

var polishLetters = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
)

// sanitize lowercases a name and keeps only ASCII letters, digits, '-' and '_'.
func sanitize(name string) string {
	name = polishLetters.Replace(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
