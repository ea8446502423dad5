package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// LoanState is everything the engine carries from one month to the next.
type LoanState struct {
	Balance          float64
	DaysPastDue      int
	MissedPeriods    int
	RemainingTerm    int
	PrincipalPortion float64
	InterestPortion  float64
}

// InitialState is the state at disbursement, before any payment is due.
func InitialState(c model.LoanContract) LoanState {
	interest := float64(c.Principal) * c.MonthlyRate()
	return LoanState{
		Balance:          float64(c.Principal),
		DaysPastDue:      0,
		MissedPeriods:    1,
		RemainingTerm:    c.Term,
		InterestPortion:  interest,
		PrincipalPortion: c.Installment - interest,
	}
}

func (s LoanState) PaidOff() bool {
	return s.RemainingTerm <= 0
}

// Engine walks a loan month by month from disbursement to payoff or the
// data cutoff, whichever comes first.
type Engine struct {
	cutoff           model.Month
	impairmentDays   int
	missWeight       float64
	daysPerMonth     int
	amortizationDays int
}

func NewEngine(params config.Parameters) *Engine {
	return &Engine{
		cutoff:           params.DataCutoff,
		impairmentDays:   params.ImpairmentDays,
		missWeight:       params.BadPayerMissWeight,
		daysPerMonth:     params.DaysPerMonth,
		amortizationDays: params.AmortizationDays,
	}
}

// Simulate returns the loan's snapshots in month order. Loans disbursed
// after the cutoff return no snapshots. Only bad payers draw from s.
func (e *Engine) Simulate(c model.LoanContract, s Sampler) ([]model.LoanSnapshot, error) {
	cut := model.MonthOf(c.DisbursementDate)
	if cut > e.cutoff {
		return nil, nil
	}

	state := InitialState(c)
	months := e.cutoff.Sub(cut) + 1
	if months > c.Term+1 {
		months = c.Term + 1
	}
	snaps := make([]model.LoanSnapshot, 0, months)
	snaps = append(snaps, e.snapshot(c, cut, state))

	for !state.PaidOff() {
		next := cut.Next()
		if next > e.cutoff {
			break
		}
		state = e.Step(c, state, s)
		if err := e.check(c, state, next); err != nil {
			return nil, err
		}
		cut = next
		snaps = append(snaps, e.snapshot(c, cut, state))
	}
	return snaps, nil
}

// Step advances the state by one month.
func (e *Engine) Step(c model.LoanContract, st LoanState, s Sampler) LoanState {
	catchUp := st.MissedPeriods

	if !c.GoodPayer {
		paid := false
		if st.DaysPastDue <= e.impairmentDays {
			paid = !s.Chance(e.missWeight)
		}

		if paid {
			st.DaysPastDue = 0
			st.MissedPeriods = 1
		} else {
			st.MissedPeriods++
			if st.DaysPastDue == 0 {
				st.DaysPastDue = e.firstMissDays(c.DisbursementDate)
			} else {
				st.DaysPastDue += e.daysPerMonth
			}
		}
	}

	if st.DaysPastDue != 0 {
		return st
	}

	st.RemainingTerm--
	st.Balance -= st.PrincipalPortion * float64(catchUp)
	if st.Balance <= 0 {
		st.Balance = 0
		st.RemainingTerm = 0
	}
	st.InterestPortion = st.Balance * c.MonthlyRate()
	st.PrincipalPortion = c.Installment - st.InterestPortion
	return st
}

// firstMissDays is the remainder of the first missed month. A loan disbursed
// on or after the day-count boundary still counts one day late.
func (e *Engine) firstMissDays(disbursed time.Time) int {
	days := e.daysPerMonth - disbursed.Day()
	if days < 1 {
		days = 1
	}
	return days
}

func (e *Engine) check(c model.LoanContract, st LoanState, cut model.Month) error {
	var detail string
	switch {
	case math.IsNaN(st.Balance) || math.IsInf(st.Balance, 0):
		detail = fmt.Sprintf("balance %v is not finite", st.Balance)
	case st.Balance < 0:
		detail = fmt.Sprintf("balance %v is negative", st.Balance)
	case st.DaysPastDue < 0:
		detail = fmt.Sprintf("days past due %d is negative", st.DaysPastDue)
	case st.RemainingTerm < 0:
		detail = fmt.Sprintf("remaining term %d is negative", st.RemainingTerm)
	default:
		return nil
	}
	return &InvariantError{
		Index:     c.Index,
		LoanID:    c.ID,
		Invariant: "loan state at " + cut.String(),
		Detail:    detail,
	}
}

func (e *Engine) snapshot(c model.LoanContract, cut model.Month, st LoanState) model.LoanSnapshot {
	return model.LoanSnapshot{
		CutMonth:           cut,
		LoanID:             c.ID,
		DisbursementDate:   c.DisbursementDate,
		MaturityDate:       c.MaturityDate,
		DaysPastDue:        st.DaysPastDue,
		Term:               c.Term,
		RemainingTerm:      st.RemainingTerm,
		AmortizationDays:   e.amortizationDays,
		Principal:          c.Principal,
		AnnualRate:         c.AnnualRate,
		Installment:        c.Installment,
		OutstandingBalance: int64(st.Balance),
		OfficeCode:         c.Office.Code,
		OfficeName:         c.Office.Name,
		ProductCode:        c.Product.Code,
		ProductName:        c.Product.Name,
	}
}
