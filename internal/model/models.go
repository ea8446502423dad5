package model

import (
	"time"
)

type Product struct {
	Code   int     `json:"code" yaml:"code" validate:"gt=0"`
	Name   string  `json:"name" yaml:"name" validate:"required"`
	Rate   float64 `json:"rate" yaml:"rate" validate:"gte=0,lt=1"`
	Weight float64 `json:"weight" yaml:"weight" validate:"gt=0"`
}

type Office struct {
	Code int    `json:"code" yaml:"code" validate:"gt=0"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

// LoanContract is fixed at origination and never mutated.
type LoanContract struct {
	Index            int       `json:"index"`
	ID               string    `json:"id"`
	Product          Product   `json:"product"`
	Office           Office    `json:"office"`
	Principal        int64     `json:"principal"`
	AnnualRate       float64   `json:"annual_rate"`
	Term             int       `json:"term"`
	DisbursementDate time.Time `json:"disbursement_date"`
	MaturityDate     time.Time `json:"maturity_date"`
	GoodPayer        bool      `json:"good_payer"`
	Installment      float64   `json:"installment"`
}

// MonthlyRate is the periodic rate used by the annuity formula.
func (c LoanContract) MonthlyRate() float64 {
	return c.AnnualRate / 12
}

type LoanSnapshot struct {
	CutMonth           Month     `json:"cut_month"`
	LoanID             string    `json:"loan_id"`
	DisbursementDate   time.Time `json:"disbursement_date"`
	MaturityDate       time.Time `json:"maturity_date"`
	DaysPastDue        int       `json:"days_past_due"`
	Term               int       `json:"loan_term"`
	RemainingTerm      int       `json:"remaining_term"`
	AmortizationDays   int       `json:"amortization"`
	Principal          int64     `json:"principal"`
	AnnualRate         float64   `json:"interest_rate"`
	Installment        float64   `json:"installment"`
	OutstandingBalance int64     `json:"outstanding_balance"`
	OfficeCode         int       `json:"office_code"`
	OfficeName         string    `json:"office_name"`
	ProductCode        int       `json:"product_code"`
	ProductName        string    `json:"product_name"`
}

func (s LoanSnapshot) DisbursementMonth() Month {
	return MonthOf(s.DisbursementDate)
}

// IsNewLoan reports whether the snapshot is the loan's origination month.
func (s LoanSnapshot) IsNewLoan() bool {
	return s.DisbursementMonth() == s.CutMonth
}

type SummaryRow struct {
	CutMonth           Month   `json:"cut_month"`
	DisbursementMonth  Month   `json:"disbursement_month"`
	Term               int     `json:"loan_term"`
	AnnualRate         float64 `json:"interest_rate"`
	OfficeCode         int     `json:"office_code"`
	OfficeName         string  `json:"office_name"`
	ProductCode        int     `json:"product_code"`
	ProductName        string  `json:"product_name"`
	CreditStatus       string  `json:"credit_status"`
	Principal          int64   `json:"principal"`
	NewLoanCount       int     `json:"new_loan_count"`
	OutstandingBalance int64   `json:"outstanding_balance"`
	RecordCount        int     `json:"record_count"`
}

type Run struct {
	ID            string    `json:"id"`
	Seed          int64     `json:"seed"`
	NumLoans      int       `json:"num_loans"`
	DataCutoff    Month     `json:"data_cutoff"`
	ObservedLoans int       `json:"observed_loans"`
	SnapshotCount int       `json:"snapshot_count"`
	SummaryCount  int       `json:"summary_count"`
	CreatedAt     time.Time `json:"created_at"`
}
