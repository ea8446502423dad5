package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

var snapshotColumns = []string{
	"run_id", "cut_month", "loan_id", "disbursement_date", "maturity_date", "days_past_due",
	"loan_term", "remaining_term", "amortization", "principal", "interest_rate", "installment",
	"outstanding_balance", "office_code", "office_name", "product_code", "product_name",
}

var summaryColumns = []string{
	"run_id", "cut_month", "disbursement_month", "loan_term", "interest_rate", "office_code",
	"office_name", "product_code", "product_name", "credit_status", "principal", "new_loan_count",
	"outstanding_balance", "record_count",
}

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Save stores a run with its detail and summary tables in one transaction.
// A failure leaves no partial run behind.
func (r *RunRepository) Save(ctx context.Context, run *model.Run, params config.Parameters, snaps []model.LoanSnapshot, rows []model.SummaryRow) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO simulation_runs (id, seed, num_loans, data_cutoff, observed_loans, snapshot_count, summary_count, parameters)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		run.ID, run.Seed, run.NumLoans, int(run.DataCutoff), run.ObservedLoans,
		run.SnapshotCount, run.SummaryCount, paramsJSON,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"loan_snapshots"}, snapshotColumns,
		pgx.CopyFromSlice(len(snaps), func(i int) ([]any, error) {
			s := snaps[i]
			return []any{
				run.ID, int(s.CutMonth), s.LoanID, s.DisbursementDate, s.MaturityDate, s.DaysPastDue,
				s.Term, s.RemainingTerm, s.AmortizationDays, s.Principal, s.AnnualRate, s.Installment,
				s.OutstandingBalance, s.OfficeCode, s.OfficeName, s.ProductCode, s.ProductName,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy snapshots: %w", err)
	}
	if int(n) != len(snaps) {
		return fmt.Errorf("copy snapshots: wrote %d of %d rows", n, len(snaps))
	}

	n, err = tx.CopyFrom(ctx, pgx.Identifier{"portfolio_summary"}, summaryColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			s := rows[i]
			return []any{
				run.ID, int(s.CutMonth), int(s.DisbursementMonth), s.Term, s.AnnualRate, s.OfficeCode,
				s.OfficeName, s.ProductCode, s.ProductName, s.CreditStatus, s.Principal, s.NewLoanCount,
				s.OutstandingBalance, s.RecordCount,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy summary rows: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy summary rows: wrote %d of %d rows", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runSelect = `SELECT id::text, seed, num_loans, data_cutoff, observed_loans, snapshot_count, summary_count, created_at
	FROM simulation_runs`

func (r *RunRepository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := r.pool.QueryRow(ctx, runSelect+` WHERE id = $1`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit, offset int) ([]model.Run, int, error) {
	var totalItems int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM simulation_runs`).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	rows, err := r.pool.Query(ctx, runSelect+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, totalItems, nil
}

func scanRun(row pgx.Row) (*model.Run, error) {
	var run model.Run
	var cutoff int
	err := row.Scan(&run.ID, &run.Seed, &run.NumLoans, &cutoff, &run.ObservedLoans,
		&run.SnapshotCount, &run.SummaryCount, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.DataCutoff = model.Month(cutoff)
	return &run, nil
}
