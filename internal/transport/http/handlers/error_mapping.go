package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/upstream"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// loginRedirect is where the client navigates once credentials stop working.
const loginRedirect = "/login"

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// SessionExpirer clears local credentials when the platform rejects them.
type SessionExpirer interface {
	Expire()
}

// ErrorMapper resolves service and upstream errors into API responses. A
// rejected credential always clears the session and points the client at the
// login screen, whichever endpoint tripped it.
type ErrorMapper struct {
	sessions SessionExpirer
}

// NewErrorMapper constructs an ErrorMapper.
func NewErrorMapper(sessions SessionExpirer) *ErrorMapper {
	return &ErrorMapper{sessions: sessions}
}

// Respond resolves the provided error against known cases or falls back to a
// generic response.
func (m *ErrorMapper) Respond(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	if m.isSessionFatal(err) {
		m.respondSessionExpired(c)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	switch {
	case errors.Is(err, usecase.ErrPermissionDenied), errors.Is(err, upstream.ErrForbidden):
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "you do not have access to this resource"))
		return
	case errors.Is(err, upstream.ErrNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "resource not found"))
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		c.JSON(apiErr.StatusCode, NewErrorResponse(c, apiErr.Detail()))
		return
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

func (m *ErrorMapper) isSessionFatal(err error) bool {
	return errors.Is(err, upstream.ErrUnauthorized) ||
		errors.Is(err, usecase.ErrNotAuthenticated) ||
		errors.Is(err, usecase.ErrSessionExpired)
}

func (m *ErrorMapper) respondSessionExpired(c *gin.Context) {
	if m.sessions != nil {
		m.sessions.Expire()
	}

	resp := NewErrorResponse(c, "session expired, please sign in again")
	resp.Redirect = loginRedirect
	c.JSON(http.StatusUnauthorized, resp)
}
