package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mumbaitransit/mumbaitransit/internal/alert"
	"github.com/mumbaitransit/mumbaitransit/internal/api/models"
	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/crowd"
	"github.com/mumbaitransit/mumbaitransit/internal/fare"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
	"github.com/mumbaitransit/mumbaitransit/internal/station"
)

var validate = validator.New()

// domainProblems maps core errors to their problem types, checked in order.
var domainProblems = []struct {
	err         error
	problemType string
}{
	{fare.ErrInvalidInput, models.ProblemTypeValidation},
	{crowd.ErrInvalidInput, models.ProblemTypeValidation},
	{featureflags.ErrUnknownFlag, models.ProblemTypeValidation},
	{featureflags.ErrInvalidValue, models.ProblemTypeValidation},
	{station.ErrDifferentLines, models.ProblemTypeDifferentLines},
	{fare.ErrUnknownLine, models.ProblemTypeUnknownLine},
	{station.ErrUnknownStation, models.ProblemTypeUnknownStation},
	{route.ErrRouteNotFound, models.ProblemTypeRouteNotFound},
	{alert.ErrAlertNotFound, models.ProblemTypeAlertNotFound},
	{alert.ErrProviderUnavailable, models.ProblemTypeFeedsUnavailable},
}

// writeError maps a domain error to a problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, dp := range domainProblems {
		if errors.Is(err, dp.err) {
			detail := err.Error()
			if dp.problemType == models.ProblemTypeFeedsUnavailable {
				detail = "alert feeds are unavailable"
			}
			response.Problem(w, r, dp.problemType, detail)
			return
		}
	}
	response.InternalError(w, r, "an unexpected error occurred")
}

// validateQuery validates v and writes a 400 listing the failing fields.
// It reports whether v was valid.
func validateQuery(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.BadRequest(w, r, err.Error(), nil)
		return false
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   lowerFirst(fe.Field()),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	response.BadRequest(w, r, "invalid request parameters", fields)
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields def.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func badParam(w http.ResponseWriter, r *http.Request, name, message string) {
	response.BadRequest(w, r, "invalid request parameters", []models.FieldError{
		{Field: name, Message: message, Code: "format"},
	})
}
