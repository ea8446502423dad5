// Package summary buckets loan snapshots into the portfolio summary table.
package summary

import (
	"cmp"
	"slices"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

const (
	StatusExcellent  = "Excellent"
	StatusRegular    = "Regular"
	StatusDoubtful40 = "Doubtful 31-40"
	StatusDoubtful50 = "Doubtful 41-50"
	StatusDoubtful60 = "Doubtful 51-60"
	StatusBadDebt    = "Bad debt"
)

// Statuses lists credit statuses from best to worst.
var Statuses = []string{
	StatusExcellent,
	StatusRegular,
	StatusDoubtful40,
	StatusDoubtful50,
	StatusDoubtful60,
	StatusBadDebt,
}

func Classify(daysPastDue int) string {
	switch {
	case daysPastDue == 0:
		return StatusExcellent
	case daysPastDue >= 1 && daysPastDue <= 30:
		return StatusRegular
	case daysPastDue >= 31 && daysPastDue <= 40:
		return StatusDoubtful40
	case daysPastDue >= 41 && daysPastDue <= 50:
		return StatusDoubtful50
	case daysPastDue >= 51 && daysPastDue <= 60:
		return StatusDoubtful60
	default:
		return StatusBadDebt
	}
}

type key struct {
	cutMonth          model.Month
	disbursementMonth model.Month
	term              int
	rate              float64
	officeCode        int
	officeName        string
	productCode       int
	productName       string
	status            string
}

// Aggregate groups snapshots up to cutoff. Balances are summed over every
// row; principal and loan counts only over rows in the disbursement month.
// Rows come back sorted by their grouping key.
func Aggregate(snaps []model.LoanSnapshot, cutoff model.Month) []model.SummaryRow {
	index := make(map[key]int)
	var rows []model.SummaryRow

	for _, s := range snaps {
		if s.CutMonth > cutoff {
			continue
		}
		k := key{
			cutMonth:          s.CutMonth,
			disbursementMonth: s.DisbursementMonth(),
			term:              s.Term,
			rate:              s.AnnualRate,
			officeCode:        s.OfficeCode,
			officeName:        s.OfficeName,
			productCode:       s.ProductCode,
			productName:       s.ProductName,
			status:            Classify(s.DaysPastDue),
		}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, model.SummaryRow{
				CutMonth:          k.cutMonth,
				DisbursementMonth: k.disbursementMonth,
				Term:              k.term,
				AnnualRate:        k.rate,
				OfficeCode:        k.officeCode,
				OfficeName:        k.officeName,
				ProductCode:       k.productCode,
				ProductName:       k.productName,
				CreditStatus:      k.status,
			})
		}

		row := &rows[i]
		row.OutstandingBalance += s.OutstandingBalance
		row.RecordCount++
		if s.IsNewLoan() {
			row.Principal += s.Principal
			row.NewLoanCount++
		}
	}

	slices.SortFunc(rows, compareRows)
	return rows
}

func compareRows(a, b model.SummaryRow) int {
	return cmp.Or(
		cmp.Compare(a.CutMonth, b.CutMonth),
		cmp.Compare(a.DisbursementMonth, b.DisbursementMonth),
		cmp.Compare(a.Term, b.Term),
		cmp.Compare(a.AnnualRate, b.AnnualRate),
		cmp.Compare(a.OfficeCode, b.OfficeCode),
		cmp.Compare(a.OfficeName, b.OfficeName),
		cmp.Compare(a.ProductCode, b.ProductCode),
		cmp.Compare(a.ProductName, b.ProductName),
		cmp.Compare(a.CreditStatus, b.CreditStatus),
	)
}

type StatusTotal struct {
	Status             string `json:"status"`
	Loans              int    `json:"loans"`
	OutstandingBalance int64  `json:"outstanding_balance"`
}

type MonthMix struct {
	CutMonth           model.Month   `json:"cut_month"`
	Loans              int           `json:"loans"`
	NewLoans           int           `json:"new_loans"`
	Disbursed          int64         `json:"disbursed"`
	OutstandingBalance int64         `json:"outstanding_balance"`
	Statuses           []StatusTotal `json:"statuses"`
}

// StatusMix rolls summary rows up to one entry per cut month with a total
// for every status, in Statuses order.
func StatusMix(rows []model.SummaryRow) []MonthMix {
	byMonth := make(map[model.Month]*MonthMix)
	var months []model.Month

	for _, r := range rows {
		m, ok := byMonth[r.CutMonth]
		if !ok {
			m = &MonthMix{CutMonth: r.CutMonth, Statuses: make([]StatusTotal, len(Statuses))}
			for i, s := range Statuses {
				m.Statuses[i].Status = s
			}
			byMonth[r.CutMonth] = m
			months = append(months, r.CutMonth)
		}
		m.Loans += r.RecordCount
		m.NewLoans += r.NewLoanCount
		m.Disbursed += r.Principal
		m.OutstandingBalance += r.OutstandingBalance
		i := slices.Index(Statuses, r.CreditStatus)
		if i < 0 {
			continue
		}
		m.Statuses[i].Loans += r.RecordCount
		m.Statuses[i].OutstandingBalance += r.OutstandingBalance
	}

	slices.Sort(months)
	out := make([]MonthMix, len(months))
	for i, month := range months {
		out[i] = *byMonth[month]
	}
	return out
}
