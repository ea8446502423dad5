package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/dto"
	"github.com/anyulbade/loan-portfolio-simulator/internal/simulation"
)

// MapError turns a service error into a status and body. Anything
// unrecognised is logged and hidden behind a 500.
func MapError(err error) (int, dto.ErrorResponse) {
	if errors.Is(err, config.ErrInvalidParameters) {
		return http.StatusBadRequest, dto.ErrorResponse{Error: "invalid simulation parameters", Details: err.Error()}
	}

	var invErr *simulation.InvariantError
	if errors.As(err, &invErr) {
		log.Error().Err(err).Int("loan_index", invErr.Index).Str("loan_id", invErr.LoanID).Msg("simulation invariant violated")
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "simulation invariant violated", Details: invErr.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, dto.ErrorResponse{Error: "request timed out"}
	}

	return MapDBError(err)
}

func MapDBError(err error) (int, dto.ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, dto.ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23503": // foreign_key_violation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "referenced resource does not exist",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		case "22P02": // invalid_text_representation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid identifier",
				Details: pgErr.Message,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
}

// ErrorHandler answers for handlers that recorded an error with c.Error and
// wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
