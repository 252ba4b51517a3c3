package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
	"github.com/noah-isme/edulog-api/pkg/storage"
)

type statsStub struct{}

func (statsStub) StudentReport(ctx context.Context, studentID string, period analytics.Period) (*dto.StudentReportDocument, error) {
	return &dto.StudentReportDocument{
		ReportType:  string(models.ReportTypeLearningStats),
		GeneratedAt: "2024-05-07T00:00:00Z",
		Stats: dto.StudentStatsResponse{
			StudentID: studentID,
			Period:    string(period),
			Range:     dto.RangeInfo{Start: "2024-05-01", End: "2024-05-07"},
			DailySeries: []analytics.DailyPoint{
				{Date: "2024-05-01", Label: "5/1", Minutes: 60, Hours: 1},
				{Date: "2024-05-02", Label: "5/2", Minutes: 30, Hours: 0.5},
			},
			SubjectRanking: []analytics.SubjectRank{
				{Name: "Math", Minutes: 90, Hours: 1.5},
			},
		},
	}, nil
}

func (statsStub) OverallReport(ctx context.Context) (*dto.OverallReportDocument, error) {
	return &dto.OverallReportDocument{
		ReportType:  string(models.ReportTypeOverallStats),
		GeneratedAt: "2024-05-07T00:00:00Z",
		Stats: dto.OverallStatsResponse{
			Period:        string(analytics.PeriodMonth),
			Range:         dto.RangeInfo{Start: "2024-04-08", End: "2024-05-07"},
			TotalStudents: 2,
			DailySeries: []analytics.DailyPoint{
				{Date: "2024-05-01", Label: "5/1", Minutes: 90, Hours: 1.5},
			},
			StudentRankings: []analytics.StudentRank{
				{StudentID: "student-1", Name: "Ana", Minutes: 60, Hours: 1},
				{StudentID: "student-2", Name: "Ben", Minutes: 30, Hours: 0.5},
			},
		},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(statsStub{}, store, signer, cfg, zap.NewNop())
	return svc, store
}

func studentPtr(id string) *string {
	return &id
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-1",
		Type:      models.ReportTypeLearningStats,
		Params:    models.ReportJobParams{StudentID: studentPtr("student-1"), Period: "week", Format: models.ReportFormatCSV},
		CreatedBy: "student-1",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateJSON(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-2",
		Type:      models.ReportTypeLearningStats,
		Params:    models.ReportJobParams{StudentID: studentPtr("student-1"), Period: "month", Format: models.ReportFormatJSON},
		CreatedBy: "student-1",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatJSON, result.Format)

	data, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Contains(t, string(data), "learning_stats")
	require.Contains(t, string(data), "student-1")
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-3",
		Type:      models.ReportTypeOverallStats,
		Params:    models.ReportJobParams{Format: models.ReportFormatPDF},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRejectsMissingStudent(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-4",
		Type:      models.ReportTypeLearningStats,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
