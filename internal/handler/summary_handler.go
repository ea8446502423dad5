package handler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/export"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
	"github.com/anyulbade/loan-portfolio-simulator/internal/summary"
)

type SummaryHandler struct {
	svc *service.PortfolioService
}

func NewSummaryHandler(svc *service.PortfolioService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// Get returns the run's summary table as JSON, or as the CSV export layout
// with format=csv.
func (h *SummaryHandler) Get(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	var f repository.SummaryFilter
	if f.CutMonth, ok = queryMonth(c, "cut_month"); !ok {
		return
	}
	if f.OfficeCode, ok = queryInt(c, "office_code"); !ok {
		return
	}
	if f.ProductCode, ok = queryInt(c, "product_code"); !ok {
		return
	}
	f.CreditStatus = c.Query("credit_status")
	if f.CreditStatus != "" && !slices.Contains(summary.Statuses, f.CreditStatus) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid credit_status", Details: f.CreditStatus})
		return
	}

	rows, err := h.svc.Summary(c.Request.Context(), id, f)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="summary-%s.csv"`, id))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := export.WriteSummary(c.Writer, rows); err != nil {
			log.Error().Err(err).Str("run_id", id).Msg("stream summary csv")
		}
		return
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{RunID: id, Data: rows, Count: len(rows)})
}
