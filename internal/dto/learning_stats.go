package dto

import (
	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/models"
)

// RangeInfo reports the resolved window as yyyy-MM-dd bounds.
type RangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StudyLogItem is a study log row enriched with its subject name.
type StudyLogItem struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Content     string `json:"content"`
	LogDate     string `json:"log_date"`
}

// StudentStatsResponse is the student (and admin single-student) view.
type StudentStatsResponse struct {
	StudentID          string                        `json:"student_id"`
	Period             string                        `json:"period"`
	Range              RangeInfo                     `json:"range"`
	Summary            analytics.Summary             `json:"summary"`
	EvaluationAverages *analytics.EvaluationAverage  `json:"evaluation_averages"`
	DailySeries        []analytics.DailyPoint        `json:"daily_series"`
	EvaluationTrend    []analytics.EvaluationPoint   `json:"evaluation_trend"`
	SubjectRanking     []analytics.SubjectRank       `json:"subject_ranking"`
	StudyLogs          []StudyLogItem                `json:"study_logs"`
	Pagination         *models.Pagination            `json:"pagination,omitempty"`
}

// OverallStatsResponse is the admin all-students view.
type OverallStatsResponse struct {
	Period          string                  `json:"period"`
	Range           RangeInfo               `json:"range"`
	TotalStudents   int                     `json:"total_students"`
	ActiveStudents  int                     `json:"active_students"`
	TotalMinutes    int                     `json:"total_minutes"`
	TotalHours      float64                 `json:"total_hours"`
	DailySeries     []analytics.DailyPoint  `json:"daily_series"`
	SubjectTotals   []analytics.SubjectRank `json:"subject_totals"`
	StudentRankings []analytics.StudentRank `json:"student_rankings"`
}

// StudentReportDocument wraps student stats as an exportable report.
type StudentReportDocument struct {
	ReportType  string               `json:"report_type"`
	GeneratedAt string               `json:"generated_at"`
	Stats       StudentStatsResponse `json:"stats"`
}

// OverallReportDocument wraps overall stats as an exportable report.
type OverallReportDocument struct {
	ReportType  string               `json:"report_type"`
	GeneratedAt string               `json:"generated_at"`
	Stats       OverallStatsResponse `json:"stats"`
}
