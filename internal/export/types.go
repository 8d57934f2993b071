// Package export renders a workspace snapshot into shareable BRD
// documents: Markdown for pasting into docs, HTML for preview, and PDF
// via headless Chrome for client delivery.
package export

import "errors"

// Format is the export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

var AllowedFormats = map[Format]struct{}{
	FormatMarkdown: {},
	FormatHTML:     {},
	FormatPDF:      {},
}

// Request contains parameters for an export operation.
type Request struct {
	ProjectName          string
	Format               Format
	Author               string
	IncludeOpenQuestions bool
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrUnsupportedFormat indicates the requested format is not one of
	// markdown, html or pdf.
	ErrUnsupportedFormat = errors.New("export unsupported format")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies
	// are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
