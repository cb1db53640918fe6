package handlers

import (
	"context"
	"net/http"

	"github.com/ghuser/productstore/pkg/httpx"
)

// ActivityReader exposes the per-kind lifecycle counters.
type ActivityReader interface {
	Counts(ctx context.Context) (map[string]int64, error)
}

// ActivityResponse maps event kind to the number of processed events.
type ActivityResponse struct {
	Counts map[string]int64 `json:"counts"`
} // @name ActivityResponse

// GetActivityHandler handles GET /products/activity requests.
type GetActivityHandler struct {
	activity ActivityReader
}

// NewGetActivityHandler returns a GetActivityHandler. A nil reader makes the
// endpoint report 503.
func NewGetActivityHandler(activity ActivityReader) *GetActivityHandler {
	return &GetActivityHandler{activity: activity}
}

// Execute returns product lifecycle counters.
//
//	@Summary	Product activity
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	ActivityResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/products/activity [get]
func (h *GetActivityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "activity tracking is disabled")
		return
	}

	counts, err := h.activity.Counts(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "activity counters unavailable")
		return
	}

	httpx.JSON(w, http.StatusOK, ActivityResponse{Counts: counts})
}
