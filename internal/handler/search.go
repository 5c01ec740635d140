package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// SuggestParams are the query parameters of GET /suggest.
type SuggestParams struct {
	Kind string
	Q    *string
	Seq  *int64
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q        *string
	Type     *string
	Category *string
}

// GetSuggest handles GET /suggest?kind=&q=&seq=.
// A blank q yields no suggestions; a store failure also yields none.
func (s *Server) GetSuggest(w http.ResponseWriter, r *http.Request) {
	var params SuggestParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "kind", query, &params.Kind); err != nil {
		writeErrorBody(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &params.Q); err != nil {
		writeErrorBody(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "seq", query, &params.Seq); err != nil {
		writeErrorBody(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	kind, err := domain.ParseKind(params.Kind)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	q := deref(params.Q)
	sugs := s.deps.Suggest.Search(r.Context(), kind, q)
	writeJSON(w, http.StatusOK, SuggestResponse{
		Seq:         params.Seq,
		Query:       q,
		Suggestions: suggestionsToResponse(sugs),
	})
}

// GetSearch handles GET /search?q=&type=&category=.
func (s *Server) GetSearch(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	query := r.URL.Query()
	for name, dest := range map[string]**string{"q": &params.Q, "type": &params.Type, "category": &params.Category} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			writeErrorBody(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
	}

	q := deref(params.Q)
	res, err := s.deps.Search.Search(r.Context(), q, deref(params.Type), deref(params.Category))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	categories := res.Categories
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:      q,
		Results:    suggestionsToResponse(res.Results),
		Categories: categories,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
