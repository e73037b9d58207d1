package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/plasticoslc/console/internal/client/client"
	"github.com/plasticoslc/console/internal/filex"
	"github.com/plasticoslc/console/internal/logging"
)

// ReportService saves reports generated by the API to local disk.
type ReportService interface {
	// Download fetches report reportID and returns the path it was saved to.
	Download(ctx context.Context, reportID string) (string, error)
}

type reportService struct {
	client  client.Client
	session Session
	dir     string
	log     logging.Logger
}

// NewReportService returns a ReportService writing into dir, which is
// created on first use.
func NewReportService(client client.Client, session Session, dir string, log logging.Logger) ReportService {
	if log == nil {
		log = logging.Nop{}
	}
	return &reportService{client: client, session: session, dir: dir, log: log}
}

func (s *reportService) Download(ctx context.Context, reportID string) (string, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return "", fmt.Errorf("report id is required")
	}

	token, err := s.session.Token()
	if err != nil {
		return "", err
	}

	data, name, err := s.client.DownloadReport(ctx, token, reportID)
	if err != nil {
		return "", fmt.Errorf("download report %s: %w", reportID, handleAuthError(ctx, s.session, s.log, err))
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	path, err := filex.WriteNew(dir, filex.SafeName(name, "report-"+filex.SafeName(reportID, "download")), data)
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "report saved", "report_id", reportID, "path", path, "bytes", len(data))
	return path, nil
}
