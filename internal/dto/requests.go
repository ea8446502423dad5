package dto

import (
	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// RunSimulationRequest overrides the server's loaded parameters for one run.
// Omitted fields keep the loaded values.
type RunSimulationRequest struct {
	NumLoans       *int   `json:"num_loans" binding:"omitempty,gt=0,lte=100000"`
	Seed           *int64 `json:"seed"`
	DataCutoff     string `json:"data_cutoff" binding:"omitempty,len=6,numeric"`
	PerLoanStreams *bool  `json:"per_loan_streams"`
	Workers        *int   `json:"workers" binding:"omitempty,gte=0,lte=64"`
}

func (r *RunSimulationRequest) Overrides() (config.Overrides, error) {
	o := config.Overrides{
		NumLoans:       r.NumLoans,
		Seed:           r.Seed,
		PerLoanStreams: r.PerLoanStreams,
		Workers:        r.Workers,
	}
	if r.DataCutoff != "" {
		m, err := model.ParseMonth(r.DataCutoff)
		if err != nil {
			return config.Overrides{}, err
		}
		o.DataCutoff = &m
	}
	return o, nil
}
