package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/api/response"
	"github.com/mumbaitransit/mumbaitransit/internal/featureflags"
)

// FeatureFlagsHandler handles feature flag endpoints.
type FeatureFlagsHandler struct {
	service *featureflags.Service
	logger  zerolog.Logger
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(service *featureflags.Service, logger zerolog.Logger) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{service: service, logger: logger}
}

// ListFeatureFlags handles GET /v1/admin/feature-flags - list all feature flags.
func (h *FeatureFlagsHandler) ListFeatureFlags(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.list(r))
}

// UpsertFeatureFlags handles PUT /v1/admin/feature-flags - update feature flags.
func (h *FeatureFlagsHandler) UpsertFeatureFlags(w http.ResponseWriter, r *http.Request) {
	var req featureflags.FlagUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if !validateQuery(w, r, req) {
		return
	}
	req.Actor = GetSubject(r.Context())

	if _, err := h.service.Update(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	h.logger.Info().
		Str("subject", req.Actor).
		Int("updates", len(req.Updates)).
		Msg("feature flags updated via admin api")

	response.JSON(w, r, http.StatusOK, h.list(r))
}

// ResetFeatureFlag handles DELETE /v1/admin/feature-flags/{flagKey} - drop an
// override so the flag returns to its default.
func (h *FeatureFlagsHandler) ResetFeatureFlag(w http.ResponseWriter, r *http.Request) {
	flag, err := h.service.Reset(r.Context(), chi.URLParam(r, "flagKey"), GetSubject(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, flag)
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate - invalidate flag cache.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	response.NoContent(w, r)
}

// list returns the known flags in display order, followed by any others.
func (h *FeatureFlagsHandler) list(r *http.Request) featureflags.FlagList {
	all := h.service.GetAllFlags(r.Context())

	out := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(all))}
	for _, key := range featureflags.KnownFlags {
		if f, ok := all[key]; ok && f != nil {
			out.Items = append(out.Items, *f)
			delete(all, key)
		}
	}
	rest := make([]string, 0, len(all))
	for key := range all {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		if f := all[key]; f != nil {
			out.Items = append(out.Items, *f)
		}
	}
	return out
}
