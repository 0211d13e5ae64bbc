package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
	"github.com/noah-isme/programme-match-api/pkg/export"
)

// ExportFormat names a rendering of the programme list.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"University", "College", "Course", "Code", "Minimum Points", "Eligible", "Match Score"}

// ExportFile is a rendered document ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders a student's current programme list as CSV or PDF.
type ExportService struct {
	registry *SessionRegistry
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(registry *SessionRegistry, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{registry: registry, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ParseExportFormat accepts csv or pdf case-insensitively; empty means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportPDF:
		return format, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Export renders the programmes displayed in the student's session. Before
// the first fetch the last persisted list is used.
func (s *ExportService) Export(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	snap := s.registry.Get(studentID).Snapshot()
	programmes := snap.Programmes
	if snap.State == StateIdle {
		if _, err := s.registry.Store(studentID).Get(ctx, KeyEligibleCourses, &programmes); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programmes")
		}
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Programmes (%s filter)", snap.Mode),
		Headers: exportHeaders,
		Rows:    programmeRows(programmes),
	}
	stamp := s.now().UTC().Format("20060102-150405")

	var (
		payload     []byte
		err         error
		contentType string
	)
	switch format {
	case ExportCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		s.logger.Error("failed to render export", zap.String("student_id", studentID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("programmes-%s-%s.%s", snap.Mode, stamp, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func programmeRows(programmes []models.Programme) [][]string {
	rows := make([][]string, 0, len(programmes))
	for _, p := range programmes {
		eligible := "No"
		if p.Eligible {
			eligible = "Yes"
		}
		rows = append(rows, []string{
			p.University,
			p.College,
			p.Course,
			p.CourseAbbr,
			strconv.Itoa(int(p.MinimumPoints)),
			eligible,
			strconv.Itoa(p.MatchScore),
		})
	}
	return rows
}
