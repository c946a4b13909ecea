package handler

import (
	"net/http"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// AIHandler serves the generative helpers: draft descriptions and review
// summaries.
type AIHandler struct {
	generator domain.DescriptionGenerator
	listings  *usecase.ListingUsecase
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewAIHandler(generator domain.DescriptionGenerator, listings *usecase.ListingUsecase, m *metrics.Manager, log *logger.Logger) *AIHandler {
	return &AIHandler{
		generator: generator,
		listings:  listings,
		metrics:   m,
		logger:    log.Named("AIHandler"),
	}
}

type generateDescriptionRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Keywords string `json:"keywords"`
}

type generatedTextResponse struct {
	Text string `json:"text"`
}

// GenerateDescription handles POST /api/ai/description.
func (h *AIHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req generateDescriptionRequest
	if err := decodeStrict(r, &req); err != nil {
		respondError(w, h.logger, h.metrics, "ai.description", err)
		return
	}

	text, err := h.generator.GenerateDescription(r.Context(), req.Title, req.Category, req.Keywords)
	if err != nil {
		respondError(w, h.logger, h.metrics, "ai.description", err)
		return
	}
	respondJSON(w, http.StatusOK, generatedTextResponse{Text: text})
}

// SummarizeReviews handles GET /api/listings/{id}/reviews/summary.
func (h *AIHandler) SummarizeReviews(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "ai.review_summary", err)
		return
	}

	comments := make([]string, 0, len(listing.Reviews))
	for _, rv := range listing.Reviews {
		if rv.Comment != "" {
			comments = append(comments, rv.Comment)
		}
	}

	text, err := h.generator.SummarizeReviews(r.Context(), comments)
	if err != nil {
		respondError(w, h.logger, h.metrics, "ai.review_summary", err)
		return
	}
	respondJSON(w, http.StatusOK, generatedTextResponse{Text: text})
}
