package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Error represents a structured error response.
type Error struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Envelope wraps an error response together with the request id, so agents
// can quote the id when reporting a problem with a ticket operation.
type Envelope struct {
	RequestID string `json:"request_id,omitempty"`
	Error     *Error `json:"error,omitempty"`
}

// AbortError records an error and aborts the handler. The response will be
// rendered by the Errors middleware.
func AbortError(c *gin.Context, status int, code, message string, fields map[string]string) {
	c.Set("app_error", &Error{Code: code, Message: message, FieldErrors: fields})
	c.AbortWithStatus(status)
}

// AbortNotFound is the 404 shorthand for a named resource ("ticket", ...).
func AbortNotFound(c *gin.Context, resource string) {
	AbortError(c, http.StatusNotFound, resource+"_not_found", resource+" not found", nil)
}

// AbortDB maps a store error onto the envelope: a missing row becomes a 404
// for the resource, anything else a 500.
func AbortDB(c *gin.Context, resource string, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		AbortNotFound(c, resource)
		return
	}
	AbortError(c, http.StatusInternalServerError, resource+"_unavailable", err.Error(), nil)
}

// Errors emits the JSON error envelope and a structured log entry when an
// error was recorded via AbortError.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		v, ok := c.Get("app_error")
		if !ok {
			return
		}
		appErr, ok := v.(*Error)
		if !ok {
			return
		}
		status := c.Writer.Status()
		logger := log.Ctx(c.Request.Context()).Error().Str("code", appErr.Code)
		for k, v := range appErr.FieldErrors {
			logger = logger.Str("field_"+k, v)
		}
		logger.Msg(appErr.Message)
		c.JSON(status, Envelope{RequestID: c.GetString("request_id"), Error: appErr})
	}
}
