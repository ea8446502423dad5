package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

var ErrInvalidParameters = errors.New("invalid simulation parameters")

const dateLayout = "2006-01-02"

// Date is a calendar day read from YAML as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("parse date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(dateLayout), nil
}

// Parameters drive one simulation run. Treat a loaded value as read-only;
// use WithOverrides to derive a variant.
type Parameters struct {
	NumLoans           int             `yaml:"num_loans" validate:"gt=0"`
	Seed               int64           `yaml:"seed"`
	LoanIDStart        int             `yaml:"loan_id_start" validate:"gte=0"`
	Products           []model.Product `yaml:"products" validate:"required,min=1,dive"`
	Offices            []model.Office  `yaml:"offices" validate:"required,min=1,dive"`
	MinLoan            int64           `yaml:"min_loan" validate:"gt=0"`
	MaxLoan            int64           `yaml:"max_loan" validate:"gtfield=MinLoan"`
	LoanStep           int64           `yaml:"loan_step" validate:"gt=0"`
	Terms              []int           `yaml:"terms" validate:"required,min=1,dive,gte=1"`
	StartDate          Date            `yaml:"start_date"`
	EndDate            Date            `yaml:"end_date"`
	DataCutoff         model.Month     `yaml:"data_cutoff"`
	ImpairmentDays     int             `yaml:"impairment_days" validate:"gte=0"`
	BadPayerWeight     float64         `yaml:"bad_payer_weight" validate:"gte=0,lte=1"`
	BadPayerMissWeight float64         `yaml:"bad_payer_miss_weight" validate:"gte=0,lte=1"`
	DaysPerMonth       int             `yaml:"days_per_month" validate:"gte=1"`
	AmortizationDays   int             `yaml:"amortization_days" validate:"gte=1"`
	Workers            int             `yaml:"workers" validate:"gte=0"`
	PerLoanStreams     bool            `yaml:"per_loan_streams"`
	DetailFileName     string          `yaml:"detail_file_name" validate:"required"`
	SummaryFileName    string          `yaml:"summary_file_name" validate:"required"`
}

func DefaultParameters() Parameters {
	return Parameters{
		NumLoans:    1000,
		Seed:        42,
		LoanIDStart: 1000,
		Products: []model.Product{
			{Code: 1, Name: "Education", Rate: 0.05, Weight: 0.3},
			{Code: 2, Name: "General", Rate: 0.08, Weight: 0.4},
			{Code: 3, Name: "Taxes loan", Rate: 0.09, Weight: 0.2},
			{Code: 4, Name: "Travel", Rate: 0.10, Weight: 0.1},
		},
		Offices: []model.Office{
			{Code: 10, Name: "Toronto"},
			{Code: 20, Name: "North York"},
			{Code: 30, Name: "Missisauga"},
			{Code: 40, Name: "Pickering"},
			{Code: 50, Name: "Whitby"},
		},
		MinLoan:            500,
		MaxLoan:            10000,
		LoanStep:           10,
		Terms:              []int{12, 24, 36, 48, 60},
		StartDate:          NewDate(2022, time.January, 1),
		EndDate:            NewDate(2025, time.April, 30),
		DataCutoff:         202503,
		ImpairmentDays:     180,
		BadPayerWeight:     0.08,
		BadPayerMissWeight: 0.08,
		DaysPerMonth:       30,
		AmortizationDays:   30,
		Workers:            1,
		DetailFileName:     "loans_data",
		SummaryFileName:    "loans_data_filtered",
	}
}

// LoadParameters reads YAML over the defaults. A missing file yields the
// defaults unchanged.
func LoadParameters(path string) (Parameters, error) {
	params := DefaultParameters()

	// #nosec G304: path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return params, params.Validate()
		}
		return Parameters{}, fmt.Errorf("read parameters file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return Parameters{}, fmt.Errorf("unmarshal parameters: %w", err)
	}

	if err := params.Validate(); err != nil {
		return Parameters{}, err
	}
	return params, nil
}

var validate = validator.New()

// Validate fails fast on any configuration the generator cannot draw from.
func (p Parameters) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	var problems []string
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		problems = append(problems, "start_date and end_date are required")
	} else if p.EndDate.Before(p.StartDate.Time) {
		problems = append(problems, fmt.Sprintf("end_date %s is before start_date %s",
			p.EndDate.Format(dateLayout), p.StartDate.Format(dateLayout)))
	}
	if !p.DataCutoff.Valid() {
		problems = append(problems, fmt.Sprintf("data_cutoff %d is not a YYYYMM month", int(p.DataCutoff)))
	}
	problems = append(problems, duplicateCodes(p)...)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(problems, "; "))
	}
	return nil
}

func duplicateCodes(p Parameters) []string {
	var problems []string
	seen := make(map[int]bool, len(p.Products))
	for _, pr := range p.Products {
		if seen[pr.Code] {
			problems = append(problems, fmt.Sprintf("duplicate product code %d", pr.Code))
		}
		seen[pr.Code] = true
	}
	seen = make(map[int]bool, len(p.Offices))
	for _, o := range p.Offices {
		if seen[o.Code] {
			problems = append(problems, fmt.Sprintf("duplicate office code %d", o.Code))
		}
		seen[o.Code] = true
	}
	return problems
}

type Overrides struct {
	NumLoans       *int
	Seed           *int64
	DataCutoff     *model.Month
	PerLoanStreams *bool
	Workers        *int
}

// WithOverrides returns a copy with the non-nil overrides applied. Catalog
// slices are copied so the receiver stays untouched.
func (p Parameters) WithOverrides(o Overrides) Parameters {
	out := p
	out.Products = append([]model.Product(nil), p.Products...)
	out.Offices = append([]model.Office(nil), p.Offices...)
	out.Terms = append([]int(nil), p.Terms...)

	if o.NumLoans != nil {
		out.NumLoans = *o.NumLoans
	}
	if o.Seed != nil {
		out.Seed = *o.Seed
	}
	if o.DataCutoff != nil {
		out.DataCutoff = *o.DataCutoff
	}
	if o.PerLoanStreams != nil {
		out.PerLoanStreams = *o.PerLoanStreams
	}
	if o.Workers != nil {
		out.Workers = *o.Workers
	}
	return out
}
