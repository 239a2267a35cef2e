package server

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.catalog.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.writeError(w, r, err, nil)
			return
		}
	}
	s.write(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.catalog.ListTables(r.Context())
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	s.write(w, r, http.StatusOK, map[string][]string{"tables": tables})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	cols, err := s.reader.ReadColumns(r.Context(), table)
	if err != nil {
		var suggestions []string
		if errs.IsNotFound(err) {
			suggestions = s.suggest(r, table)
		}
		s.writeError(w, r, err, suggestions)
		return
	}
	s.write(w, r, http.StatusOK, export.NewDocument(&schema.Table{Name: table, Columns: cols}))
}

// suggest returns the known table names closest to table.
func (s *Server) suggest(r *http.Request, table string) []string {
	tables, err := s.catalog.ListTables(r.Context())
	if err != nil {
		return nil
	}
	matches := fuzzy.Find(table, tables)
	sort.Stable(matches)

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// write encodes v as JSON, or YAML when the request asks for ?format=yaml.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		format = export.FormatJSON
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(status)
	if err := export.Encode(w, format, v); err != nil {
		logger.FromContext(r.Context()).With().Err(err).Logger().Error("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, suggestions []string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).With().Err(err).Int("status", status).Logger().Error("request failed")
	}
	s.write(w, r, status, errorResponse{Error: publicMessage(err), Suggestions: suggestions})
}

func statusFor(err error) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsInvalidInput(err):
		return http.StatusBadRequest
	case errs.IsPermissionDenied(err):
		return http.StatusForbidden
	case errs.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errs.IsConnectionFailed(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error message without its driver cause.
func publicMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return http.StatusText(statusFor(err))
}
