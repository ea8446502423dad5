package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	format := c.Query("format")

	data, err := h.svc.GenerateReport(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	wantsHTML := format == "html" || (format == "" && strings.Contains(c.GetHeader("Accept"), "text/html"))

	if wantsHTML {
		html, err := h.svc.RenderHTML(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to render HTML", Details: err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.JSON(http.StatusOK, data)
}
