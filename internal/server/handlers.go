package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/registry"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type schemasBody struct {
	Default string   `json:"default"`
	Schemas []string `json:"schemas"`
}

type labelsBody struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

// scope returns the schema option carried by the route, if any.
func scope(r *http.Request) []registry.Option {
	if name := chi.URLParam(r, "schema"); name != "" {
		return []registry.Option{registry.InSchema(name)}
	}
	return nil
}

func (s *Server) handleSchemas(w http.ResponseWriter, _ *http.Request) {
	reg := s.Registry()
	writeJSON(w, http.StatusOK, schemasBody{Default: reg.DefaultSchema(), Schemas: reg.Schemas()})
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) { return s.Registry().Contents(scope(r)...) })
}

func (s *Server) handleRow(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ResolveRow(chi.URLParam(r, "name"), scope(r)...)
	})
}

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ListRelationships(chi.URLParam(r, "name"), scope(r)...)
	})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ResolveInsertShape(chi.URLParam(r, "name"), scope(r)...)
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ResolveUpdateShape(chi.URLParam(r, "name"), scope(r)...)
	})
}

func (s *Server) handleEnum(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		name := chi.URLParam(r, "name")
		labels, err := s.Registry().ResolveEnumLabels(name, scope(r)...)
		if err != nil {
			return nil, err
		}
		return labelsBody{Name: name, Labels: labels}, nil
	})
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ResolveCompositeType(chi.URLParam(r, "name"), scope(r)...)
	})
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	respond(w, r, func() (any, error) {
		return s.Registry().ResolveFunction(chi.URLParam(r, "name"), scope(r)...)
	})
}

func respond(w http.ResponseWriter, r *http.Request, fn func() (any, error)) {
	v, err := fn()
	if err != nil {
		if errs.KindOf(err) == errs.ErrKindUnknown {
			logger.FromContext(r.Context()).ErrorWith("lookup failed", err, map[string]any{"path": r.URL.Path})
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// statusFor maps an error to an HTTP status by kind.
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
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	writeJSON(w, statusFor(err), errorBody{Error: errs.KindOf(err).String(), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.With().Err(err).Logger().Warn("failed to write response")
	}
}
