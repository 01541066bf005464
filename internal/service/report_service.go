package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
	"github.com/traintrackhq/traintrack-api/pkg/export"
)

type reportRepository interface {
	ListReportRows(ctx context.Context, from, to time.Time, trainerID string) ([]models.ReportRow, error)
}

// Report export formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

var reportHeaders = []string{"Trainer", "Batch", "Date", "Duration (hrs)"}

// ReportWindow is the inclusive date range a report covers.
type ReportWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Report is the weekly activity summary before export.
type Report struct {
	Window ReportWindow       `json:"window"`
	Rows   []models.ReportRow `json:"rows"`
}

// ReportFile is a rendered export ready to be sent as an attachment.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService builds the weekly activity report and renders exports.
// Non-admin callers are scoped to the trainer profile they own.
type ReportService struct {
	repo       reportRepository
	trainers   trainerFinder
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, trainers trainerFinder, windowDays int, logger *zap.Logger) *ReportService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:       repo,
		trainers:   trainers,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Weekly returns the report rows for the trailing window. Non-admin
// callers are scoped to their own trainer; without a trainer profile
// the report is empty.
func (s *ReportService) Weekly(ctx context.Context, userID string, role models.Role) (*Report, error) {
	to := models.DateOf(s.now())
	from := to.AddDate(0, 0, -s.windowDays)

	trainerID := ""
	if role != models.RoleAdmin {
		trainer, err := s.trainers.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &Report{Window: ReportWindow{From: from, To: to}, Rows: []models.ReportRow{}}, nil
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
		}
		trainerID = trainer.ID
	}

	rows, err := s.repo.ListReportRows(ctx, from, to, trainerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build report")
	}
	if rows == nil {
		rows = []models.ReportRow{}
	}
	return &Report{Window: ReportWindow{From: from, To: to}, Rows: rows}, nil
}

// Export renders the weekly report in the requested format.
func (s *ReportService) Export(ctx context.Context, userID string, role models.Role, format string) (*ReportFile, error) {
	report, err := s.Weekly(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: reportHeaders, Rows: make([]map[string]string, 0, len(report.Rows))}
	for _, row := range report.Rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Trainer":        row.TrainerName,
			"Batch":          row.BatchName,
			"Date":           row.Date.Format(models.DateLayout),
			"Duration (hrs)": strconv.FormatFloat(row.Duration, 'f', -1, 64),
		})
	}

	switch format {
	case "", ReportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &ReportFile{Filename: "weekly_report.csv", ContentType: "text/csv", Content: content}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(dataset, "Weekly Training Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &ReportFile{Filename: "weekly_report.pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}
