package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// SnapshotFilter narrows a run's detail table. Zero values match everything.
type SnapshotFilter struct {
	CutMonth    model.Month
	LoanID      string
	OfficeCode  int
	ProductCode int
}

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) ListSnapshots(ctx context.Context, runID string, f SnapshotFilter, limit, offset int) ([]model.LoanSnapshot, int, error) {
	where := `
		WHERE run_id = $1
			AND ($2 = 0 OR cut_month = $2)
			AND ($3 = '' OR loan_id = $3)
			AND ($4 = 0 OR office_code = $4)
			AND ($5 = 0 OR product_code = $5)`
	args := []any{runID, int(f.CutMonth), f.LoanID, f.OfficeCode, f.ProductCode}

	var totalItems int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loan_snapshots`+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	// loan_id is text; order numerically so pages follow loan index
	dataQuery := `SELECT cut_month, loan_id, disbursement_date, maturity_date, days_past_due, loan_term,
			remaining_term, amortization, principal, interest_rate, installment::float8, outstanding_balance,
			office_code, office_name, product_code, product_name
		FROM loan_snapshots` + where + `
		ORDER BY length(loan_id), loan_id, cut_month
		LIMIT $6 OFFSET $7`

	rows, err := r.pool.Query(ctx, dataQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	results := []model.LoanSnapshot{}
	for rows.Next() {
		var s model.LoanSnapshot
		var cut int
		err := rows.Scan(
			&cut, &s.LoanID, &s.DisbursementDate, &s.MaturityDate, &s.DaysPastDue, &s.Term,
			&s.RemainingTerm, &s.AmortizationDays, &s.Principal, &s.AnnualRate, &s.Installment,
			&s.OutstandingBalance, &s.OfficeCode, &s.OfficeName, &s.ProductCode, &s.ProductName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan snapshot row: %w", err)
		}
		s.CutMonth = model.Month(cut)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate snapshots: %w", err)
	}

	return results, totalItems, nil
}
