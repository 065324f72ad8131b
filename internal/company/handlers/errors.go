package handlers

import (
	"errors"
	"net/http"
	"strings"

	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorDetails is the body of every error response.
type ErrorDetails struct {
	StatusCode int                 `json:"statusCode" xml:"StatusCode"`
	Message    string              `json:"message" xml:"Message"`
	Errors     map[string][]string `json:"errors,omitempty" xml:"-"`
}

const internalServerError = "Internal Server Error."

// mapServiceError maps domain or repository errors to a status code and a
// client-facing body.
func (h *base) mapServiceError(err error) (int, ErrorDetails) {
	var verr *e.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ErrorDetails{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "One or more validation errors occurred.",
			Errors:     verr.Fields,
		}
	case errors.Is(err, e.ErrNotFound):
		return details(http.StatusNotFound, publicMessage(err, e.ErrNotFound))
	case errors.Is(err, e.ErrDuplicate):
		return details(http.StatusBadRequest, publicMessage(err, e.ErrDuplicate))
	case errors.Is(err, e.ErrInvalidInput):
		return details(http.StatusBadRequest, publicMessage(err, e.ErrInvalidInput))
	case errors.Is(err, e.ErrUnauthorized):
		return details(http.StatusUnauthorized, publicMessage(err, e.ErrUnauthorized))
	case errors.Is(err, e.ErrForbidden):
		return details(http.StatusForbidden, publicMessage(err, e.ErrForbidden))
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return details(http.StatusInternalServerError, internalServerError)
	}
}

func (h *base) fail(c *gin.Context, err error) {
	status, body := h.mapServiceError(err)
	h.respond(c, status, body)
	c.Abort()
}

func (h *base) badRequest(c *gin.Context, message string) {
	h.respond(c, http.StatusBadRequest, ErrorDetails{StatusCode: http.StatusBadRequest, Message: message})
	c.Abort()
}

func details(status int, message string) (int, ErrorDetails) {
	return status, ErrorDetails{StatusCode: status, Message: message}
}

// publicMessage strips the sentinel prefix added by %w wrapping.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
