package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// SummaryFilter narrows a run's summary table. Zero values match everything.
type SummaryFilter struct {
	CutMonth     model.Month `json:"cut_month,omitempty"`
	OfficeCode   int         `json:"office_code,omitempty"`
	ProductCode  int         `json:"product_code,omitempty"`
	CreditStatus string      `json:"credit_status,omitempty"`
}

type SummaryRepository struct {
	pool *pgxpool.Pool
}

func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

func (r *SummaryRepository) ListSummary(ctx context.Context, runID string, f SummaryFilter) ([]model.SummaryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cut_month, disbursement_month, loan_term, interest_rate, office_code, office_name,
			product_code, product_name, credit_status, principal, new_loan_count, outstanding_balance, record_count
		FROM portfolio_summary
		WHERE run_id = $1
			AND ($2 = 0 OR cut_month = $2)
			AND ($3 = 0 OR office_code = $3)
			AND ($4 = 0 OR product_code = $4)
			AND ($5 = '' OR credit_status = $5)
		ORDER BY cut_month, disbursement_month, loan_term, interest_rate, office_code, office_name,
			product_code, product_name, credit_status`,
		runID, int(f.CutMonth), f.OfficeCode, f.ProductCode, f.CreditStatus)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	results := []model.SummaryRow{}
	for rows.Next() {
		var s model.SummaryRow
		var cut, disbursed int
		err := rows.Scan(
			&cut, &disbursed, &s.Term, &s.AnnualRate, &s.OfficeCode, &s.OfficeName,
			&s.ProductCode, &s.ProductName, &s.CreditStatus, &s.Principal, &s.NewLoanCount,
			&s.OutstandingBalance, &s.RecordCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		s.CutMonth = model.Month(cut)
		s.DisbursementMonth = model.Month(disbursed)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}

	return results, nil
}
