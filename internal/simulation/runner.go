package simulation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

type Result struct {
	Contracts []model.LoanContract
	Snapshots []model.LoanSnapshot
}

// ObservedLoans counts loans with at least one snapshot on or before the cutoff.
func (r *Result) ObservedLoans() int {
	seen := make(map[string]struct{}, len(r.Contracts))
	for _, s := range r.Snapshots {
		seen[s.LoanID] = struct{}{}
	}
	return len(seen)
}

type Runner struct {
	params    config.Parameters
	generator *Generator
	engine    *Engine
}

// NewRunner validates params before anything is drawn.
func NewRunner(params config.Parameters) (*Runner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		params:    params,
		generator: NewGenerator(params),
		engine:    NewEngine(params),
	}, nil
}

// Run simulates every loan. With a shared stream loans run sequentially in
// index order; with per-loan streams they run on up to Workers goroutines.
// Either way the output is ordered by loan index and an error discards it.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.params.PerLoanStreams {
		return r.runParallel(ctx)
	}
	return r.runSequential(ctx)
}

func (r *Runner) runSequential(ctx context.Context) (*Result, error) {
	sampler := NewRandSampler(r.params.Seed)
	res := &Result{Contracts: make([]model.LoanContract, 0, r.params.NumLoans)}

	for i := 0; i < r.params.NumLoans; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulate loan %d: %w", i, err)
		}
		c, snaps, err := r.simulateLoan(i, sampler)
		if err != nil {
			return nil, err
		}
		res.Contracts = append(res.Contracts, c)
		res.Snapshots = append(res.Snapshots, snaps...)
	}
	return res, nil
}

func (r *Runner) runParallel(ctx context.Context) (*Result, error) {
	contracts := make([]model.LoanContract, r.params.NumLoans)
	perLoan := make([][]model.LoanSnapshot, r.params.NumLoans)

	g, gctx := errgroup.WithContext(ctx)
	if r.params.Workers > 0 {
		g.SetLimit(r.params.Workers)
	}
	for i := 0; i < r.params.NumLoans; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("simulate loan %d: %w", i, err)
			}
			c, snaps, err := r.simulateLoan(i, NewLoanSampler(r.params.Seed, i))
			if err != nil {
				return err
			}
			contracts[i] = c
			perLoan[i] = snaps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, snaps := range perLoan {
		total += len(snaps)
	}
	res := &Result{Contracts: contracts, Snapshots: make([]model.LoanSnapshot, 0, total)}
	for _, snaps := range perLoan {
		res.Snapshots = append(res.Snapshots, snaps...)
	}
	return res, nil
}

func (r *Runner) simulateLoan(index int, s Sampler) (model.LoanContract, []model.LoanSnapshot, error) {
	c, err := r.generator.Contract(index, s)
	if err != nil {
		return model.LoanContract{}, nil, err
	}
	snaps, err := r.engine.Simulate(c, s)
	if err != nil {
		return model.LoanContract{}, nil, err
	}
	return c, snaps, nil
}
