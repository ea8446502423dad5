package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/simulation"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid parameters", fmt.Errorf("%w: num_loans", config.ErrInvalidParameters), http.StatusBadRequest, "invalid simulation parameters"},
		{"invariant", fmt.Errorf("run simulation: %w", &simulation.InvariantError{Index: 3, LoanID: "1003", Invariant: "balance", Detail: "NaN"}), http.StatusUnprocessableEntity, "simulation invariant violated"},
		{"no rows", fmt.Errorf("get run: %w", pgx.ErrNoRows), http.StatusNotFound, "resource not found"},
		{"check violation", &pgconn.PgError{Code: "23514"}, http.StatusBadRequest, "constraint violation"},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict, "resource already exists"},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, http.StatusBadRequest, "invalid identifier"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	})
	router.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("ignored"))
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/fail", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "resource not found", resp.Error)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/written", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code, "a written response is left alone")
}

func TestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generated when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated when valid", func(t *testing.T) {
		id := uuid.NewString()
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaced when malformed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		router.ServeHTTP(w, req)

		assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	})
}
