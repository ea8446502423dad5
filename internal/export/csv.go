package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

const dateLayout = "02/01/2006"

var DetailHeader = []string{
	"cut_month", "loan_id", "disbursement_date", "maturity_date", "days_past_due",
	"loan_term", "amortization", "principal", "interest_rate", "installment",
	"outstanding_balance", "office_code", "office_name", "product_code", "product_name",
}

var SummaryHeader = []string{
	"cut_month", "disbursement_month", "loan_term", "interest_rate", "office_code",
	"office_name", "product_code", "product_name", "credit_status", "principal",
	"new_loan_count", "outstanding_balance", "record_count",
}

func WriteDetail(w io.Writer, snaps []model.LoanSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DetailHeader); err != nil {
		return fmt.Errorf("write detail header: %w", err)
	}
	for i, s := range snaps {
		record := []string{
			s.CutMonth.String(),
			s.LoanID,
			s.DisbursementDate.Format(dateLayout),
			s.MaturityDate.Format(dateLayout),
			strconv.Itoa(s.DaysPastDue),
			strconv.Itoa(s.Term),
			strconv.Itoa(s.AmortizationDays),
			strconv.FormatInt(s.Principal, 10),
			formatRate(s.AnnualRate),
			decimal.NewFromFloat(s.Installment).StringFixed(4),
			strconv.FormatInt(s.OutstandingBalance, 10),
			strconv.Itoa(s.OfficeCode),
			s.OfficeName,
			strconv.Itoa(s.ProductCode),
			s.ProductName,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write detail record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSummary(w io.Writer, rows []model.SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for i, r := range rows {
		record := []string{
			r.CutMonth.String(),
			r.DisbursementMonth.String(),
			strconv.Itoa(r.Term),
			formatRate(r.AnnualRate),
			strconv.Itoa(r.OfficeCode),
			r.OfficeName,
			strconv.Itoa(r.ProductCode),
			r.ProductName,
			r.CreditStatus,
			strconv.FormatInt(r.Principal, 10),
			strconv.Itoa(r.NewLoanCount),
			strconv.FormatInt(r.OutstandingBalance, 10),
			strconv.Itoa(r.RecordCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write summary record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

type Files struct {
	DetailPath  string
	SummaryPath string
}

// WriteFiles writes both tables to dir as <name>.csv. Each table goes to a
// temp file first; the final names only appear once both are complete.
func WriteFiles(dir, detailName, summaryName string, snaps []model.LoanSnapshot, rows []model.SummaryRow) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	detailTmp, err := writeTemp(dir, detailName, func(w io.Writer) error { return WriteDetail(w, snaps) })
	if err != nil {
		return nil, err
	}
	summaryTmp, err := writeTemp(dir, summaryName, func(w io.Writer) error { return WriteSummary(w, rows) })
	if err != nil {
		os.Remove(detailTmp)
		return nil, err
	}

	files := &Files{
		DetailPath:  filepath.Join(dir, detailName+".csv"),
		SummaryPath: filepath.Join(dir, summaryName+".csv"),
	}
	if err := os.Rename(detailTmp, files.DetailPath); err != nil {
		os.Remove(detailTmp)
		os.Remove(summaryTmp)
		return nil, fmt.Errorf("publish detail file: %w", err)
	}
	if err := os.Rename(summaryTmp, files.SummaryPath); err != nil {
		os.Remove(summaryTmp)
		return nil, fmt.Errorf("publish summary file: %w", err)
	}

	log.Info().Str("path", files.DetailPath).Int("count", len(snaps)).Msg("exported detail records")
	log.Info().Str("path", files.SummaryPath).Int("count", len(rows)).Msg("exported summary records")
	return files, nil
}

func writeTemp(dir, name string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, name+"-*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", name, err)
	}
	path := f.Name()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("flush %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}
