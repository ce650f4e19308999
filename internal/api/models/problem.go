package models

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 error response.
// This is used for all API error responses with Content-Type: application/problem+json.
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is the request path the problem occurred on.
	Instance string `json:"instance,omitempty"`

	// TraceID is the request id, echoed in X-Request-Id.
	TraceID string `json:"traceId"`

	// Errors contains structured field validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const problemBase = "https://api.mumbaitransit.in/problems/"

// Generic problem types.
const (
	ProblemTypeValidation       = problemBase + "validation-error"
	ProblemTypeUnauthorized     = problemBase + "unauthorized"
	ProblemTypeForbidden        = problemBase + "forbidden"
	ProblemTypeNotFound         = problemBase + "not-found"
	ProblemTypeTooManyRequests  = problemBase + "too-many-requests"
	ProblemTypeInternal         = problemBase + "internal-error"
	ProblemTypeTLSRequired      = problemBase + "tls-required"
	ProblemTypeUnsupportedMedia = problemBase + "unsupported-media-type"
)

// Transit problem types. Clients can branch on these without parsing Detail.
const (
	ProblemTypeUnknownLine      = problemBase + "unknown-line"
	ProblemTypeUnknownStation   = problemBase + "unknown-station"
	ProblemTypeRouteNotFound    = problemBase + "route-not-found"
	ProblemTypeAlertNotFound    = problemBase + "alert-not-found"
	ProblemTypeDifferentLines   = problemBase + "different-lines"
	ProblemTypeFeatureDisabled  = problemBase + "feature-disabled"
	ProblemTypeFeedsUnavailable = problemBase + "feeds-unavailable"
)

type problemKind struct {
	title  string
	status int
}

var problemKinds = map[string]problemKind{
	ProblemTypeValidation:       {"Validation error", http.StatusBadRequest},
	ProblemTypeUnauthorized:     {"Unauthorized", http.StatusUnauthorized},
	ProblemTypeForbidden:        {"Forbidden", http.StatusForbidden},
	ProblemTypeNotFound:         {"Not found", http.StatusNotFound},
	ProblemTypeTooManyRequests:  {"Too many requests", http.StatusTooManyRequests},
	ProblemTypeInternal:         {"Internal server error", http.StatusInternalServerError},
	ProblemTypeTLSRequired:      {"TLS required", http.StatusForbidden},
	ProblemTypeUnsupportedMedia: {"Unsupported media type", http.StatusUnsupportedMediaType},
	ProblemTypeUnknownLine:      {"Unknown line", http.StatusNotFound},
	ProblemTypeUnknownStation:   {"Unknown station", http.StatusNotFound},
	ProblemTypeRouteNotFound:    {"Route not found", http.StatusNotFound},
	ProblemTypeAlertNotFound:    {"Alert not found", http.StatusNotFound},
	ProblemTypeDifferentLines:   {"Stations on different lines", http.StatusBadRequest},
	ProblemTypeFeatureDisabled:  {"Feature disabled", http.StatusServiceUnavailable},
	ProblemTypeFeedsUnavailable: {"Alert feeds unavailable", http.StatusServiceUnavailable},
}

// NewProblem creates a new Problem with the given parameters.
func NewProblem(problemType, title string, status int, traceID string) *Problem {
	return &Problem{
		Type:    problemType,
		Title:   title,
		Status:  status,
		TraceID: traceID,
	}
}

// Known builds a problem of a registered type, taking its title and status
// from the catalogue. Unregistered types become internal errors.
func Known(problemType, traceID, detail string) *Problem {
	kind, ok := problemKinds[problemType]
	if !ok {
		problemType = ProblemTypeInternal
		kind = problemKinds[ProblemTypeInternal]
	}
	return NewProblem(problemType, kind.title, kind.status, traceID).WithDetail(detail)
}

// WithDetail adds a detail message to the Problem.
func (p *Problem) WithDetail(detail string) *Problem {
	p.Detail = detail
	return p
}

// WithInstance adds the request instance URI to the Problem.
func (p *Problem) WithInstance(instance string) *Problem {
	p.Instance = instance
	return p
}

// WithErrors adds field errors to the Problem.
func (p *Problem) WithErrors(errors []FieldError) *Problem {
	p.Errors = errors
	return p
}

// Write writes the Problem as JSON to the ResponseWriter.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest creates a 400 carrying the failing fields.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	return Known(ProblemTypeValidation, traceID, detail).WithErrors(errors)
}

func NewUnauthorized(traceID, detail string) *Problem {
	return Known(ProblemTypeUnauthorized, traceID, detail)
}

func NewForbidden(traceID, detail string) *Problem {
	return Known(ProblemTypeForbidden, traceID, detail)
}

func NewNotFound(traceID, detail string) *Problem {
	return Known(ProblemTypeNotFound, traceID, detail)
}

func NewTooManyRequests(traceID, detail string) *Problem {
	return Known(ProblemTypeTooManyRequests, traceID, detail)
}

func NewInternalError(traceID, detail string) *Problem {
	return Known(ProblemTypeInternal, traceID, detail)
}
