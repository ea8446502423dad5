package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

type SimulationHandler struct {
	sim       *service.SimulationService
	portfolio *service.PortfolioService
}

func NewSimulationHandler(sim *service.SimulationService, portfolio *service.PortfolioService) *SimulationHandler {
	return &SimulationHandler{sim: sim, portfolio: portfolio}
}

// Create runs a simulation synchronously. An empty body runs the loaded
// parameters as they are.
func (h *SimulationHandler) Create(c *gin.Context) {
	var req dto.RunSimulationRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
			return
		}
	}

	overrides, err := req.Overrides()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid data_cutoff", Details: err.Error()})
		return
	}

	res, err := h.sim.Run(c.Request.Context(), overrides)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.SimulationResponse{Run: res.Run, Persisted: res.Persisted})
}

func (h *SimulationHandler) List(c *gin.Context) {
	p, ok := pagination(c)
	if !ok {
		return
	}

	runs, totalItems, err := h.portfolio.ListRuns(c.Request.Context(), p.PageSize, p.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RunListResponse{
		Data:       runs,
		Pagination: dto.NewPagination(p.Page, p.PageSize, totalItems),
	})
}

func (h *SimulationHandler) Get(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	run, err := h.portfolio.GetRun(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}
