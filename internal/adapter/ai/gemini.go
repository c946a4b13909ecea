package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"go.uber.org/zap"
)

const missingKeyText = "(AI key missing. Provide an API key to enable AI features.)"

// Generator calls the Gemini generateContent REST endpoint. An empty API
// key degrades to a stub message rather than an error, so core operations
// never depend on the collaborator being configured.
type Generator struct {
	apiKey string
	model  string
	client *http.Client
	logger *logger.Logger
}

func NewGenerator(apiKey, model string, log *logger.Logger) *Generator {
	return &Generator{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: log.Named("GeminiGenerator"),
	}
}

// GenerateDescription produces a short listing description from a title,
// category and optional keyword hints.
func (g *Generator) GenerateDescription(ctx context.Context, title, category, keywords string) (string, error) {
	if keywords == "" {
		keywords = "N/A"
	}
	prompt := []string{
		"Create a concise, friendly listing description for a local services and rentals marketplace.",
		"Title: " + title,
		"Category: " + category,
		"Details/keywords: " + keywords,
		"Constraints: 60-120 words, simple English, include contact via phone, safety and community tone.",
	}
	return g.generate(ctx, prompt)
}

// SummarizeReviews condenses review comments into two or three sentences.
func (g *Generator) SummarizeReviews(ctx context.Context, comments []string) (string, error) {
	raw := "No reviews."
	if len(comments) > 0 {
		raw = "- " + strings.Join(comments, "\n- ")
	}
	prompt := []string{
		"Summarize these user reviews for a marketplace listing in 2-3 sentences.",
		raw,
	}
	return g.generate(ctx, prompt)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Generator) generate(ctx context.Context, promptParts []string) (string, error) {
	if g.apiKey == "" {
		return missingKeyText, nil
	}

	parts := make([]part, 0, len(promptParts))
	for _, p := range promptParts {
		parts = append(parts, part{Text: p})
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("Gemini request failed", zap.Error(err))
		return "", fmt.Errorf("text generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("Gemini returned non-OK status", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("text generation failed with status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode text generation response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
