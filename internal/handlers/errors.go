package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and writes it. Client
// errors are logged as warnings and everything else as an error with the
// generic fallback message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, msg := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, msg = http.StatusForbidden, "You do not have permission to perform this action"
	case errors.Is(err, apperrors.ErrInsufficientStock):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrConcurrency):
		status, msg = http.StatusConflict, "The transaction was modified concurrently, please retry"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrConsistency):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": msg})
}
