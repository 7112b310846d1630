// Package ingest turns uploaded price lists (PDF and Excel) into text,
// tables and rows for the import wizard.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cennik/internal/logger"

	"github.com/ledongthuc/pdf"
)

// MinNativeTextLength is the shortest extracted text still treated as a
// real text layer. Anything shorter is considered a scan.
const MinNativeTextLength = 30

const (
	SourceText   = "text"
	SourceVision = "vision"
)

// TextExtractor transcribes a PDF that has no usable text layer.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

type PDFAnalysis struct {
	Source string  `json:"source"`
	Pages  int     `json:"pages"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables"`
}

type PDFAnalyzer struct {
	vision TextExtractor
	logger *logger.Logger
}

func NewPDFAnalyzer(vision TextExtractor, logger *logger.Logger) *PDFAnalyzer {
	return &PDFAnalyzer{vision: vision, logger: logger}
}

// Analyze extracts text from the PDF, falling back to the vision model for
// scans, and detects tables in the result.
func (a *PDFAnalyzer) Analyze(ctx context.Context, data []byte) (*PDFAnalysis, error) {
	pages, text, err := NativeText(data)
	if err != nil {
		a.logger.Debug("Native PDF text extraction failed: %v", err)
	}

	result := &PDFAnalysis{Source: SourceText, Pages: pages, Text: text}

	if len(strings.TrimSpace(text)) < MinNativeTextLength {
		if a.vision == nil {
			if err != nil {
				return nil, fmt.Errorf("failed to read PDF: %w", err)
			}
			return nil, fmt.Errorf("PDF has no text layer and no vision model is configured")
		}
		a.logger.Info("PDF has no usable text layer (%d chars), using vision model", len(strings.TrimSpace(text)))
		text, err = a.vision.ExtractText(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("vision extraction failed: %w", err)
		}
		result.Source = SourceVision
		result.Text = text
	}

	result.Tables = DetectTables(result.Text)
	return result, nil
}

// NativeText reads the text layer of a PDF.
func NativeText(data []byte) (pages int, text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return reader.NumPage(), "", err
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return reader.NumPage(), "", err
	}
	return reader.NumPage(), string(out), nil
}
