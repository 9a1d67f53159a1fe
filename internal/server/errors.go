package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/query"
	"github.com/KaramelBytes/insights-cli/internal/session"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		ingest *parser.IngestError
		verr   *charts.ValidationError
	)
	switch {
	case errors.Is(err, session.ErrNoDataset):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, charts.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.As(err, &ingest),
		errors.Is(err, analysis.ErrUnknownColumn),
		errors.Is(err, analysis.ErrNotNumeric),
		errors.Is(err, query.ErrNoAnswer):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as JSON for API clients. Browser form posts are sent back
// to the dashboard with the message in the query string.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.ErrorContext(c.Request().Context(), "request failed", "uri", c.Request().RequestURI, "error", err)
	}
	if !wantsJSON(c) && c.Request().Method == http.MethodPost && code != http.StatusInternalServerError {
		return c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(err.Error()))
	}
	body := errorBody{Error: err.Error()}
	var verr *charts.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Errors
	}
	return c.JSON(code, body)
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
