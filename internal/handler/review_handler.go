package handler

import (
	"net/http"

	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// ReviewHandler serves reviews, endorsements and moderation verification.
type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewReviewHandler(reviews *usecase.ReviewUsecase, m *metrics.Manager, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		metrics: m,
		logger:  log.Named("ReviewHandler"),
	}
}

type upsertReviewRequest struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

type reviewsResponse struct {
	Reviews []reviewResponse `json:"reviews"`
}

type endorsementResponse struct {
	Action           string `json:"action"`
	EndorsementCount int    `json:"endorsementCount"`
	IsVerified       bool   `json:"isVerified"`
}

// UpsertReview handles POST /api/listings/{id}/reviews. A repeat review by
// the same user replaces the previous one.
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	var req upsertReviewRequest
	if err := decodeStrict(r, &req); err != nil {
		respondError(w, h.logger, h.metrics, "reviews.upsert", err)
		return
	}

	reviews, err := h.reviews.UpsertReview(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.logger, h.metrics, "reviews.upsert", err)
		return
	}

	h.metrics.ReviewsUpsertedTotal.Inc()
	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, reviewResponse{
			User:      rv.UserID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
			UpdatedAt: rv.UpdatedAt,
		})
	}
	respondJSON(w, http.StatusOK, reviewsResponse{Reviews: out})
}

// ToggleEndorsement handles POST /api/listings/{id}/endorse.
func (h *ReviewHandler) ToggleEndorsement(w http.ResponseWriter, r *http.Request) {
	state, err := h.reviews.ToggleEndorsement(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "endorsements.toggle", err)
		return
	}

	h.metrics.EndorsementsToggledTotal.Inc()
	if state.Promoted {
		h.metrics.ListingsVerifiedTotal.Inc()
	}
	respondJSON(w, http.StatusOK, endorsementResponse{
		Action:           state.Action,
		EndorsementCount: state.Count,
		IsVerified:       state.IsVerified,
	})
}

// CommunityVerify handles PUT /api/listings/{id}/verify, restricted to the
// admin and community roles by the route middleware and re-checked in the
// use case.
func (h *ReviewHandler) CommunityVerify(w http.ResponseWriter, r *http.Request) {
	changed, err := h.reviews.AdminVerify(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.verify", err)
		return
	}

	// the promotion counter tracks transitions, so a re-verify of an
	// already-verified listing does not move it
	if changed {
		h.metrics.ListingsVerifiedTotal.Inc()
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Listing verified"})
}
