package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

// runID reads the :id path parameter. It answers 400 and returns false for
// anything that is not a UUID.
func runID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid run id", Details: c.Param("id")})
		return "", false
	}
	return id.String(), true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name, Details: raw})
		return 0, false
	}
	return n, true
}

func queryMonth(c *gin.Context, name string) (model.Month, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	m, err := model.ParseMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name, Details: err.Error()})
		return 0, false
	}
	return m, true
}

func pagination(c *gin.Context) (dto.PaginationParams, bool) {
	p, err := dto.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return p, false
	}
	return p, true
}
