package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/commerce/pkg/middleware/auth"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
)

var errUnauthorized = errors.New("unauthorized")

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Errors string `json:"errors"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorBody{Errors: msg})
}

// actorFrom reads the identity the auth middleware stored on the context.
func actorFrom(c echo.Context) (domain.Actor, error) {
	s, _ := c.Get(middleware.ContextUserID).(string)
	if s == "" {
		return domain.Actor{}, errUnauthorized
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return domain.Actor{}, errUnauthorized
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return domain.Actor{ID: id, Role: domain.Role(role)}, nil
}

func statusOf(err error) (int, string) {
	var nf *domain.NotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicateEntry):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrTransaction):
		return http.StatusInternalServerError, "Transaction error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError maps err to its status, logs it under event and renders the
// error body.
func writeError(c echo.Context, l *slog.Logger, event string, err error) error {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return fail(c, status, msg)
}

// errorHandler renders errors returned by middleware and routing in the same
// body shape handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := http.StatusInternalServerError, "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, isStr := he.Message.(string); isStr {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = fail(c, status, msg)
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.Validation("%s must be a uuid", name)
	}
	return id, nil
}
