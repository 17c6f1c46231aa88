package printing

import (
	"context"
	"html"
	"strings"
	"time"
)

// PaperFormat is a supported page size
type PaperFormat string

const (
	PaperA4     PaperFormat = "A4"
	PaperLetter PaperFormat = "Letter"
)

// paperSizes in millimeters, width first
var paperSizes = map[PaperFormat][2]float64{
	PaperA4:     {210, 297},
	PaperLetter: {215.9, 279.4},
}

// IsValid reports whether the format is supported
func (p PaperFormat) IsValid() bool {
	_, ok := paperSizes[p]
	return ok
}

// Dimensions returns width and height in millimeters. Unknown formats fall
// back to A4.
func (p PaperFormat) Dimensions() (width, height float64) {
	size, ok := paperSizes[p]
	if !ok {
		size = paperSizes[PaperA4]
	}
	return size[0], size[1]
}

// Margins in millimeters
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins returns 15mm on every side
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
}

// RenderRequest is one HTML document to print. FooterHTML, when set, is
// repeated at the bottom of every page and may use Chrome's pageNumber and
// totalPages classes. A zero Timeout uses the renderer default.
type RenderRequest struct {
	HTML       string
	Title      string
	Paper      PaperFormat
	Landscape  bool
	Margins    Margins
	FooterHTML string
	Timeout    time.Duration
}

func (r *RenderRequest) validate() error {
	if r == nil || strings.TrimSpace(r.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "nothing to render", nil)
	}
	if !r.Paper.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(r.Paper), nil)
	}
	return nil
}

// document returns the request as a complete HTML page, wrapping fragments
// in a minimal UTF-8 skeleton
func (r *RenderRequest) document() string {
	lower := strings.ToLower(r.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return r.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if r.Title != "" {
		b.WriteString("<title>" + html.EscapeString(r.Title) + "</title>")
	}
	b.WriteString("</head><body>" + r.HTML + "</body></html>")
	return b.String()
}

// RenderResult is a printed document
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer renders HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
)

// RenderError carries one of the ErrCode constants
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }
