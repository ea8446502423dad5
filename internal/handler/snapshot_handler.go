package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

type SnapshotHandler struct {
	svc *service.PortfolioService
}

func NewSnapshotHandler(svc *service.PortfolioService) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

func (h *SnapshotHandler) List(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	var f repository.SnapshotFilter
	if f.CutMonth, ok = queryMonth(c, "cut_month"); !ok {
		return
	}
	if f.OfficeCode, ok = queryInt(c, "office_code"); !ok {
		return
	}
	if f.ProductCode, ok = queryInt(c, "product_code"); !ok {
		return
	}
	f.LoanID = c.Query("loan_id")

	p, ok := pagination(c)
	if !ok {
		return
	}

	snaps, totalItems, err := h.svc.ListSnapshots(c.Request.Context(), id, f, p.PageSize, p.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SnapshotListResponse{
		Data:       snaps,
		Pagination: dto.NewPagination(p.Page, p.PageSize, totalItems),
	})
}
