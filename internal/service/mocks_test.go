package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
)

type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) Save(ctx context.Context, run *model.Run, params config.Parameters, snaps []model.LoanSnapshot, rows []model.SummaryRow) error {
	args := m.Called(ctx, run, params, snaps, rows)
	return args.Error(0)
}

type MockRunReader struct {
	mock.Mock
}

func (m *MockRunReader) GetRun(ctx context.Context, id string) (*model.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*model.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRunReader) ListRuns(ctx context.Context, limit, offset int) ([]model.Run, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) != nil {
		return args.Get(0).([]model.Run), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type MockSnapshotReader struct {
	mock.Mock
}

func (m *MockSnapshotReader) ListSnapshots(ctx context.Context, runID string, f repository.SnapshotFilter, limit, offset int) ([]model.LoanSnapshot, int, error) {
	args := m.Called(ctx, runID, f, limit, offset)
	if args.Get(0) != nil {
		return args.Get(0).([]model.LoanSnapshot), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type MockSummaryReader struct {
	mock.Mock
}

func (m *MockSummaryReader) ListSummary(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, error) {
	args := m.Called(ctx, runID, f)
	if args.Get(0) != nil {
		return args.Get(0).([]model.SummaryRow), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, bool) {
	args := m.Called(ctx, runID, f)
	if args.Get(0) != nil {
		return args.Get(0).([]model.SummaryRow), args.Bool(1)
	}
	return nil, args.Bool(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, runID string, f repository.SummaryFilter, rows []model.SummaryRow) {
	m.Called(ctx, runID, f, rows)
}

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogReader) ListOffices(ctx context.Context) ([]model.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]model.Office), args.Error(1)
	}
	return nil, args.Error(1)
}
