package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/middleware"
)

// resolveHandler returns the handler for GET /{collection}/{identifier}.
// The identifier may be a slug, a display name, part of a name or an id.
// The winning stage is reported in both the body and the X-Resolved-By header.
// When expand is set, its result replaces the record as the response data.
func resolveHandler[T domain.Entity](s *Server, resolver Resolver[T], expand func(context.Context, T) (any, error)) http.HandlerFunc {
	var zero T
	notFound := fmt.Sprintf("%s not found", zero.Kind())

	return func(w http.ResponseWriter, r *http.Request) {
		identifier, err := pathIdentifier(r)
		if err != nil {
			writeErrorBody(w, http.StatusBadRequest, codeBadRequest, "malformed identifier")
			return
		}

		res, err := resolver.Resolve(r.Context(), identifier)
		if err != nil {
			s.writeError(w, r, err, notFound)
			return
		}

		var data any = res.Record
		if expand != nil {
			if data, err = expand(r.Context(), res.Record); err != nil {
				s.writeError(w, r, err, notFound)
				return
			}
		}

		w.Header().Set(middleware.ResolvedByHeader, string(res.Stage))
		writeJSON(w, http.StatusOK, ResolvedResponse{
			Kind:       res.Record.Kind(),
			ResolvedBy: string(res.Stage),
			Data:       data,
		})
	}
}

// equipmentDetail attaches the maintenance history to resolved equipment.
func (s *Server) equipmentDetail(ctx context.Context, e domain.Equipment) (any, error) {
	if s.deps.History == nil {
		return e, nil
	}
	return s.deps.History.Detail(ctx, e)
}

// pathIdentifier returns the decoded {identifier} segment. chi matches on the
// raw path when the request carried escapes such as %2F, in which case the
// parameter is still encoded.
func pathIdentifier(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "identifier")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	return url.PathUnescape(raw)
}
