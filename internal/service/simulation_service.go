package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/simulation"
	"github.com/anyulbade/loan-portfolio-simulator/internal/summary"
)

type RunStore interface {
	Save(ctx context.Context, run *model.Run, params config.Parameters, snaps []model.LoanSnapshot, rows []model.SummaryRow) error
}

type SimulationService struct {
	params config.Parameters
	store  RunStore
}

// NewSimulationService runs simulations from params. A nil store skips
// persistence.
func NewSimulationService(params config.Parameters, store RunStore) *SimulationService {
	return &SimulationService{params: params, store: store}
}

type RunResult struct {
	Run        model.Run
	Parameters config.Parameters
	Contracts  []model.LoanContract
	Snapshots  []model.LoanSnapshot
	Summary    []model.SummaryRow
	Persisted  bool
}

func (s *SimulationService) Parameters() config.Parameters {
	return s.params
}

// Run simulates a portfolio from the loaded parameters with o applied, then
// aggregates and stores it. Nothing is stored when the simulation fails.
func (s *SimulationService) Run(ctx context.Context, o config.Overrides) (*RunResult, error) {
	params := s.params.WithOverrides(o)

	runner, err := simulation.NewRunner(params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run simulation: %w", err)
	}
	rows := summary.Aggregate(res.Snapshots, params.DataCutoff)

	run := model.Run{
		ID:            uuid.NewString(),
		Seed:          params.Seed,
		NumLoans:      params.NumLoans,
		DataCutoff:    params.DataCutoff,
		ObservedLoans: res.ObservedLoans(),
		SnapshotCount: len(res.Snapshots),
		SummaryCount:  len(rows),
		CreatedAt:     time.Now().UTC(),
	}

	log.Info().
		Str("run_id", run.ID).
		Int64("seed", run.Seed).
		Int("loans", run.NumLoans).
		Int("observed", run.ObservedLoans).
		Int("snapshots", run.SnapshotCount).
		Int("summary_rows", run.SummaryCount).
		Dur("elapsed", time.Since(start)).
		Msg("simulation complete")

	result := &RunResult{
		Run:        run,
		Parameters: params,
		Contracts:  res.Contracts,
		Snapshots:  res.Snapshots,
		Summary:    rows,
	}

	if s.store != nil {
		if err := s.store.Save(ctx, &result.Run, params, res.Snapshots, rows); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", run.ID, err)
		}
		result.Persisted = true
		log.Info().Str("run_id", run.ID).Msg("run persisted")
	}

	return result, nil
}
