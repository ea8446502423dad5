package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/summary"
	"github.com/anyulbade/loan-portfolio-simulator/internal/templates"
)

type ReportService struct {
	portfolio *PortfolioService
	tmpl      *template.Template
}

func NewReportService(portfolio *PortfolioService) *ReportService {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
		"share":       share,
	}
	tmpl := template.Must(template.New("report").Funcs(funcMap).Parse(templates.Report))
	return &ReportService{portfolio: portfolio, tmpl: tmpl}
}

type ReportData struct {
	GeneratedAt string             `json:"generated_at"`
	Run         model.Run          `json:"run"`
	Statuses    []string           `json:"statuses"`
	Months      []summary.MonthMix `json:"months"`
}

func (s *ReportService) GenerateReport(ctx context.Context, runID string) (*ReportData, error) {
	run, err := s.portfolio.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.portfolio.Summary(ctx, runID, repository.SummaryFilter{})
	if err != nil {
		return nil, err
	}

	return &ReportData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05 MST"),
		Run:         *run,
		Statuses:    summary.Statuses,
		Months:      summary.StatusMix(rows),
	}, nil
}

func (s *ReportService) RenderHTML(data *ReportData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// statusClass turns "Doubtful 31-40" into "doubtful-31-40".
func statusClass(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), " ", "-")
}

// share formats part/total as a percentage with one decimal.
func share(part, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	pct := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total))
	return pct.StringFixed(1) + "%"
}
