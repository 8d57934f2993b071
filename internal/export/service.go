package export

import (
	"fmt"

	"scopeline/workbench/internal/brd"
)

// Service renders workspace snapshots into export documents.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export generates a BRD document in the requested format.
func (s *Service) Export(snap brd.WorkspaceSnapshot, metrics brd.Metrics, req Request) (*Result, error) {
	if _, ok := AllowedFormats[req.Format]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}

	data := buildTemplateData(snap, metrics, req)
	base := sanitizeFilename(data.ProjectName)

	switch req.Format {
	case FormatMarkdown:
		return &Result{
			Data:     []byte(renderMarkdown(data)),
			Filename: base + ".md",
			MimeType: "text/markdown; charset=utf-8",
		}, nil
	case FormatHTML:
		html, err := RenderDocumentHTML(data)
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return &Result{
			Data:     []byte(html),
			Filename: base + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		html, err := RenderDocumentHTML(data)
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return exportPDF(html, data.ProjectName)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
}
