package services

import (
	"context"
	"time"

	"sparkletidy/internal/archive"
	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/export"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/metrics"
)

// exportService renders reports and optionally archives the result.
type exportService struct {
	reports  ReportServicer
	archiver archive.Archiver
}

// NewExportService creates a new ExportServicer. archiver may be nil, in
// which case exports are not archived.
func NewExportService(reports ReportServicer, archiver archive.Archiver) ExportServicer {
	return &exportService{reports: reports, archiver: archiver}
}

// ExportReport generates the report for req and renders it in format.
// Archive failures are logged; the download still succeeds.
func (s *exportService) ExportReport(ctx context.Context, req ReportRequest, format export.Format) (doc *export.Document, err error) {
	start := time.Now()
	defer func() { metrics.ObserveReportExport(string(format), err, time.Since(start)) }()

	report, err := s.reports.GenerateReport(ctx, req)
	if err != nil {
		return nil, err
	}

	doc, err = export.Render(report, format)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, err)
	}

	if s.archiver != nil {
		uri, archiveErr := s.archiver.Archive(ctx, doc.Filename, doc.ContentType, doc.Body)
		if archiveErr != nil {
			logger.Get().Errorw("failed to archive report export",
				"error", archiveErr,
				"filename", doc.Filename,
			)
		} else {
			logger.Get().Infow("archived report export", "uri", uri)
		}
	}

	return doc, nil
}
