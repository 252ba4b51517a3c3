package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
	"github.com/noah-isme/edulog-api/pkg/export"
	"github.com/noah-isme/edulog-api/pkg/storage"
)

type statsProvider interface {
	StudentReport(ctx context.Context, studentID string, period analytics.Period) (*dto.StudentReportDocument, error)
	OverallReport(ctx context.Context) (*dto.OverallReportDocument, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type jsonRenderer interface {
	Render(document interface{}) ([]byte, error)
}

// ExportService builds report documents and persists rendered files.
type ExportService struct {
	stats   statsProvider
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	json    jsonRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(stats statsProvider, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		stats:   stats,
		storage: store,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		json:    export.NewJSONExporter(),
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the report payload for the job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	var payload []byte
	var err error
	switch job.Type {
	case models.ReportTypeLearningStats:
		payload, err = s.renderStudentReport(ctx, job)
	case models.ReportTypeOverallStats:
		payload, err = s.renderOverallReport(ctx, job)
	default:
		err = fmt.Errorf("unsupported report type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) renderStudentReport(ctx context.Context, job *models.ReportJob) ([]byte, error) {
	if job.Params.StudentID == nil || *job.Params.StudentID == "" {
		return nil, fmt.Errorf("studentId missing for %s report", job.Type)
	}
	doc, err := s.stats.StudentReport(ctx, *job.Params.StudentID, analytics.Period(job.Params.Period))
	if err != nil {
		return nil, err
	}
	switch job.Params.Format {
	case models.ReportFormatJSON:
		return s.json.Render(doc)
	case models.ReportFormatCSV:
		return s.csv.Render(studentDataset(doc))
	case models.ReportFormatPDF:
		title := fmt.Sprintf("Learning Report %s", doc.Stats.Range.Start)
		return s.pdf.Render(studentDataset(doc), title)
	default:
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
}

func (s *ExportService) renderOverallReport(ctx context.Context, job *models.ReportJob) ([]byte, error) {
	doc, err := s.stats.OverallReport(ctx)
	if err != nil {
		return nil, err
	}
	switch job.Params.Format {
	case models.ReportFormatJSON:
		return s.json.Render(doc)
	case models.ReportFormatCSV:
		return s.csv.Render(overallDataset(doc))
	case models.ReportFormatPDF:
		title := fmt.Sprintf("Overall Report %s", doc.Stats.Range.Start)
		return s.pdf.Render(overallDataset(doc), title)
	default:
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
}

// studentDataset flattens the daily series into a tabular export with a
// trailing per-subject total section.
func studentDataset(doc *dto.StudentReportDocument) export.Dataset {
	rows := make([]map[string]string, 0, len(doc.Stats.DailySeries)+len(doc.Stats.SubjectRanking))
	for _, point := range doc.Stats.DailySeries {
		rows = append(rows, map[string]string{
			"Section": "daily",
			"Key":     point.Date,
			"Minutes": fmt.Sprintf("%d", point.Minutes),
			"Hours":   fmt.Sprintf("%.1f", point.Hours),
		})
	}
	for _, rank := range doc.Stats.SubjectRanking {
		rows = append(rows, map[string]string{
			"Section": "subject",
			"Key":     rank.Name,
			"Minutes": fmt.Sprintf("%d", rank.Minutes),
			"Hours":   fmt.Sprintf("%.1f", rank.Hours),
		})
	}
	return export.Dataset{
		Headers: []string{"Section", "Key", "Minutes", "Hours"},
		Rows:    rows,
	}
}

func overallDataset(doc *dto.OverallReportDocument) export.Dataset {
	rows := make([]map[string]string, 0, len(doc.Stats.DailySeries)+len(doc.Stats.StudentRankings))
	for _, point := range doc.Stats.DailySeries {
		rows = append(rows, map[string]string{
			"Section": "daily",
			"Key":     point.Date,
			"Minutes": fmt.Sprintf("%d", point.Minutes),
			"Hours":   fmt.Sprintf("%.1f", point.Hours),
		})
	}
	for _, rank := range doc.Stats.StudentRankings {
		rows = append(rows, map[string]string{
			"Section": "student",
			"Key":     rank.Name,
			"Minutes": fmt.Sprintf("%d", rank.Minutes),
			"Hours":   fmt.Sprintf("%.1f", rank.Hours),
		})
	}
	return export.Dataset{
		Headers: []string{"Section", "Key", "Minutes", "Hours"},
		Rows:    rows,
	}
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := "all"
	if job.Params.StudentID != nil && *job.Params.StudentID != "" {
		scope = sanitizeFilename(*job.Params.StudentID)
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), scope, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
