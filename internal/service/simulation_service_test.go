package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

func testParameters() config.Parameters {
	p := config.DefaultParameters()
	p.NumLoans = 40
	return p
}

func intPtr(v int) *int { return &v }

func TestSimulationService_RunWithoutStore(t *testing.T) {
	svc := NewSimulationService(testParameters(), nil)

	res, err := svc.Run(context.Background(), config.Overrides{})
	require.NoError(t, err)

	assert.False(t, res.Persisted)
	assert.NotEmpty(t, res.Run.ID)
	assert.Equal(t, 40, res.Run.NumLoans)
	assert.Len(t, res.Contracts, 40)
	assert.Equal(t, len(res.Snapshots), res.Run.SnapshotCount)
	assert.Equal(t, len(res.Summary), res.Run.SummaryCount)
	assert.LessOrEqual(t, res.Run.ObservedLoans, 40)

	records := 0
	for _, r := range res.Summary {
		records += r.RecordCount
	}
	assert.Equal(t, len(res.Snapshots), records, "every snapshot lands in exactly one summary row")
}

func TestSimulationService_Deterministic(t *testing.T) {
	svc := NewSimulationService(testParameters(), nil)

	a, err := svc.Run(context.Background(), config.Overrides{})
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), config.Overrides{})
	require.NoError(t, err)

	assert.NotEqual(t, a.Run.ID, b.Run.ID)
	assert.Equal(t, a.Snapshots, b.Snapshots)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestSimulationService_Persists(t *testing.T) {
	store := new(MockRunStore)
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Run"), mock.AnythingOfType("config.Parameters"), mock.Anything, mock.Anything).
		Return(nil).Once()

	svc := NewSimulationService(testParameters(), store)
	res, err := svc.Run(context.Background(), config.Overrides{NumLoans: intPtr(5)})
	require.NoError(t, err)

	assert.True(t, res.Persisted)
	store.AssertExpectations(t)

	saved := store.Calls[0].Arguments.Get(1).(*model.Run)
	assert.Equal(t, res.Run.ID, saved.ID)
	assert.Equal(t, 5, store.Calls[0].Arguments.Get(2).(config.Parameters).NumLoans)
}

func TestSimulationService_StoreFailure(t *testing.T) {
	store := new(MockRunStore)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	svc := NewSimulationService(testParameters(), store)
	res, err := svc.Run(context.Background(), config.Overrides{})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "persist run")
	assert.ErrorContains(t, err, "connection reset")
}

func TestSimulationService_InvalidOverrides(t *testing.T) {
	store := new(MockRunStore)
	svc := NewSimulationService(testParameters(), store)

	_, err := svc.Run(context.Background(), config.Overrides{NumLoans: intPtr(0)})
	assert.ErrorIs(t, err, config.ErrInvalidParameters)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, 40, svc.Parameters().NumLoans, "overrides never touch the loaded parameters")
}

func TestSimulationService_Cancelled(t *testing.T) {
	store := new(MockRunStore)
	svc := NewSimulationService(testParameters(), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, config.Overrides{})
	assert.ErrorIs(t, err, context.Canceled)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulationService_CutoffOverride(t *testing.T) {
	svc := NewSimulationService(testParameters(), nil)
	cutoff := model.Month(202206)

	res, err := svc.Run(context.Background(), config.Overrides{DataCutoff: &cutoff})
	require.NoError(t, err)

	assert.Equal(t, cutoff, res.Run.DataCutoff)
	for _, s := range res.Snapshots {
		assert.LessOrEqual(t, s.CutMonth, cutoff)
	}
}
