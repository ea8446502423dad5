package dto

import (
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

type SimulationResponse struct {
	Run       model.Run `json:"run"`
	Persisted bool      `json:"persisted"`
}

type RunListResponse struct {
	Data       []model.Run `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type SnapshotListResponse struct {
	Data       []model.LoanSnapshot `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

type SummaryResponse struct {
	RunID string             `json:"run_id"`
	Data  []model.SummaryRow `json:"data"`
	Count int                `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
