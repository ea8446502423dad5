package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

type TrendHandler struct {
	svc *service.TrendService
}

func NewTrendHandler(svc *service.TrendService) *TrendHandler {
	return &TrendHandler{svc: svc}
}

func (h *TrendHandler) GetTrends(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("group_by", service.GroupPortfolio)
	metric := c.DefaultQuery("metric", service.MetricOutstandingBalance)

	if !slices.Contains(service.TrendGroups, groupBy) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid group_by, use: " + strings.Join(service.TrendGroups, ", ")})
		return
	}
	if !slices.Contains(service.TrendMetrics, metric) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid metric, use: " + strings.Join(service.TrendMetrics, ", ")})
		return
	}

	periodsBack, ok := queryInt(c, "periods_back")
	if !ok {
		return
	}

	results, err := h.svc.GetTrends(c.Request.Context(), id, groupBy, metric, periodsBack)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": id,
		"data":   results,
	})
}
