package handler

import (
	"net/url"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ResolvedResponse wraps a resolved record with the stage that found it.
type ResolvedResponse struct {
	Kind       domain.Kind `json:"kind"`
	ResolvedBy string      `json:"resolved_by"`
	Data       any         `json:"data"`
}

// SuggestionResponse is the wire form of a domain.Suggestion.
type SuggestionResponse struct {
	Id       openapi_types.UUID `json:"id"`
	Kind     domain.Kind        `json:"kind"`
	Title    string             `json:"title"`
	Subtitle *string            `json:"subtitle,omitempty"`
	Slug     *string            `json:"slug,omitempty"`
	Category *string            `json:"category,omitempty"`
	// Link is the API path that resolves this record.
	Link string `json:"link"`
}

// SuggestResponse is the body of GET /suggest. Seq echoes the client's
// sequence token so it can drop responses to superseded keystrokes.
type SuggestResponse struct {
	Seq         *int64               `json:"seq,omitempty"`
	Query       string               `json:"query"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query      string               `json:"query"`
	Results    []SuggestionResponse `json:"results"`
	Categories []string             `json:"categories"`
}

// collectionPaths maps a kind to the path prefix of its resolve endpoint.
var collectionPaths = map[domain.Kind]string{
	domain.KindEquipment:   "/equipment/",
	domain.KindBuilding:    "/buildings/",
	domain.KindLocation:    "/locations/",
	domain.KindMaintenance: "/maintenance/",
}

// suggestionToResponse maps a domain.Suggestion to its wire form.
// Empty strings become nil pointers (omitted in JSON).
func suggestionToResponse(s domain.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		Id:       s.ID,
		Kind:     s.Kind,
		Title:    s.Title,
		Subtitle: optional(s.Subtitle),
		Slug:     optional(s.Slug),
		Category: optional(s.Category),
		Link:     collectionPaths[s.Kind] + url.PathEscape(s.LinkKey()),
	}
}

func suggestionsToResponse(sugs []domain.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(sugs))
	for _, s := range sugs {
		out = append(out, suggestionToResponse(s))
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
