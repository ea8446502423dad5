package simulation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// Generator draws loan contracts from the configured catalogs.
type Generator struct {
	params         config.Parameters
	productWeights []float64
	amountSlots    int
	spanDays       int
}

func NewGenerator(params config.Parameters) *Generator {
	weights := make([]float64, len(params.Products))
	for i, p := range params.Products {
		weights[i] = p.Weight
	}
	return &Generator{
		params:         params,
		productWeights: weights,
		amountSlots:    int((params.MaxLoan - params.MinLoan + params.LoanStep - 1) / params.LoanStep),
		spanDays:       int(params.EndDate.Sub(params.StartDate.Time).Hours() / 24),
	}
}

// Contract draws the loan at index. The draw order is fixed: payer quality,
// office, principal, product, term, disbursement day.
func (g *Generator) Contract(index int, s Sampler) (model.LoanContract, error) {
	p := g.params

	goodPayer := !s.Chance(p.BadPayerWeight)
	office := p.Offices[s.Intn(len(p.Offices))]
	principal := p.MinLoan + p.LoanStep*int64(s.Intn(g.amountSlots))
	product := p.Products[s.Pick(g.productWeights)]
	term := p.Terms[s.Intn(len(p.Terms))]
	disbursed := p.StartDate.AddDate(0, 0, s.Intn(g.spanDays+1))

	c := model.LoanContract{
		Index:            index,
		ID:               strconv.Itoa(p.LoanIDStart + index),
		Product:          product,
		Office:           office,
		Principal:        principal,
		AnnualRate:       product.Rate,
		Term:             term,
		DisbursementDate: disbursed,
		MaturityDate:     model.AddMonths(disbursed, term),
		GoodPayer:        goodPayer,
		Installment:      Installment(principal, product.Rate, term),
	}

	if math.IsNaN(c.Installment) || math.IsInf(c.Installment, 0) || c.Installment <= 0 {
		return model.LoanContract{}, &InvariantError{
			Index:     index,
			LoanID:    c.ID,
			Invariant: "installment",
			Detail:    fmt.Sprintf("annuity gave %v for principal %d rate %v term %d", c.Installment, principal, product.Rate, term),
		}
	}
	return c, nil
}

// Installment is the fixed annuity payment rounded to 4 decimals:
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate. A zero rate
// degenerates to P/n.
func Installment(principal int64, annualRate float64, term int) float64 {
	p := float64(principal)
	var v float64
	if annualRate == 0 {
		v = p / float64(term)
	} else {
		r := annualRate / 12
		f := math.Pow(1+r, float64(term))
		v = p * (r * f) / (f - 1)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

