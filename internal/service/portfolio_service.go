package service

import (
	"context"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
)

type RunReader interface {
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]model.Run, int, error)
}

type SnapshotReader interface {
	ListSnapshots(ctx context.Context, runID string, f repository.SnapshotFilter, limit, offset int) ([]model.LoanSnapshot, int, error)
}

type SummaryReader interface {
	ListSummary(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, error)
}

type SummaryCache interface {
	Get(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, bool)
	Set(ctx context.Context, runID string, f repository.SummaryFilter, rows []model.SummaryRow)
}

type PortfolioService struct {
	runs      RunReader
	snapshots SnapshotReader
	summaries SummaryReader
	cache     SummaryCache
}

func NewPortfolioService(runs RunReader, snapshots SnapshotReader, summaries SummaryReader, cache SummaryCache) *PortfolioService {
	if cache == nil {
		cache = noCache{}
	}
	return &PortfolioService{runs: runs, snapshots: snapshots, summaries: summaries, cache: cache}
}

type noCache struct{}

func (noCache) Get(context.Context, string, repository.SummaryFilter) ([]model.SummaryRow, bool) {
	return nil, false
}

func (noCache) Set(context.Context, string, repository.SummaryFilter, []model.SummaryRow) {}

func (s *PortfolioService) GetRun(ctx context.Context, id string) (*model.Run, error) {
	return s.runs.GetRun(ctx, id)
}

func (s *PortfolioService) ListRuns(ctx context.Context, limit, offset int) ([]model.Run, int, error) {
	return s.runs.ListRuns(ctx, limit, offset)
}

// ListSnapshots fails with pgx.ErrNoRows for an unknown run rather than
// returning an empty page.
func (s *PortfolioService) ListSnapshots(ctx context.Context, runID string, f repository.SnapshotFilter, limit, offset int) ([]model.LoanSnapshot, int, error) {
	if _, err := s.runs.GetRun(ctx, runID); err != nil {
		return nil, 0, err
	}
	return s.snapshots.ListSnapshots(ctx, runID, f, limit, offset)
}

func (s *PortfolioService) Summary(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, error) {
	if rows, ok := s.cache.Get(ctx, runID, f); ok {
		return rows, nil
	}

	if _, err := s.runs.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.summaries.ListSummary(ctx, runID, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, runID, f, rows)
	return rows, nil
}
