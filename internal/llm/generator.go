package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"sitetrainer/internal/config"
	"sitetrainer/internal/metrics"
	"sitetrainer/pkg/models"
)

const (
	combinedTokenBudget = 16000
	splitTokenBudget    = 8000

	maxAttempts    = 3
	initialBackoff = 2 * time.Second
)

// Generator turns extracted website content into a summary and FAQ set by
// prompting a chat provider. Malformed model output degrades to a fallback
// result; only transport-level failures surface as errors.
type Generator struct {
	provider    models.ChatProvider
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

func NewGenerator(provider models.ChatProvider, cfg config.LLMConfig, logger *slog.Logger) *Generator {
	return &Generator{
		provider:    provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

type combinedPayload struct {
	Summary string       `json:"summary"`
	FAQs    []faqPayload `json:"faqs"`
}

type summaryPayload struct {
	Summary string `json:"summary"`
}

type faqListPayload struct {
	FAQs []faqPayload `json:"faqs"`
}

type faqPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Generate produces the summary and FAQs in a single provider call.
func (g *Generator) Generate(ctx context.Context, content, domain string) (*models.TrainingResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	content = TruncateToTokens(content, combinedTokenBudget)
	raw, err := g.chat(ctx, BuildCombinedPrompt(content, domain), true)
	if err != nil {
		return nil, err
	}

	obj, ok := ExtractObject(raw)
	if !ok {
		g.logger.Warn("model response contained no JSON object, using fallback result")
		metrics.IncLLMRequest("parse_fallback")
		return fallbackResult(), nil
	}

	var payload combinedPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		g.logger.Warn("model response did not match expected shape, using fallback result", "error", err)
		metrics.IncLLMRequest("parse_fallback")
		return fallbackResult(), nil
	}

	return g.normalize(payload.Summary, payload.FAQs), nil
}

// GenerateSummary produces only the summary. Used by the split pipeline when
// the combined call is not wanted.
func (g *Generator) GenerateSummary(ctx context.Context, content, domain string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrNoContent
	}

	content = TruncateToTokens(content, splitTokenBudget)
	raw, err := g.chat(ctx, BuildSummaryPrompt(content, domain), true)
	if err != nil {
		return "", err
	}

	obj, ok := ExtractObject(raw)
	if !ok {
		metrics.IncLLMRequest("parse_fallback")
		return fallbackSummary, nil
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil || strings.TrimSpace(payload.Summary) == "" {
		metrics.IncLLMRequest("parse_fallback")
		return fallbackSummary, nil
	}
	return payload.Summary, nil
}

// GenerateFAQs produces only the FAQ set.
func (g *Generator) GenerateFAQs(ctx context.Context, content, domain string) ([]models.FAQ, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	content = TruncateToTokens(content, splitTokenBudget)
	raw, err := g.chat(ctx, BuildFAQPrompt(content, domain), true)
	if err != nil {
		return nil, err
	}

	obj, ok := ExtractObject(raw)
	if !ok {
		metrics.IncLLMRequest("parse_fallback")
		return fallbackFAQs(), nil
	}

	var payload faqListPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		metrics.IncLLMRequest("parse_fallback")
		return fallbackFAQs(), nil
	}
	return g.normalizeFAQs(payload.FAQs), nil
}

// chat calls the provider with retries on transport failure. Malformed
// content is not retried here; the caller handles it as a parse fallback.
func (g *Generator) chat(ctx context.Context, prompt string, jsonResponse bool) (string, error) {
	req := models.ChatRequest{
		Model: g.model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:  g.temperature,
		MaxTokens:    g.maxTokens,
		JSONResponse: jsonResponse,
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		raw, err := g.provider.Chat(ctx, req)
		metrics.ObserveLLMRequestDuration(time.Since(start).Seconds())
		if err == nil {
			metrics.IncLLMRequest("ok")
			return raw, nil
		}
		lastErr = err
		metrics.IncLLMRequest("transport_error")
		g.logger.Warn("chat request failed",
			"provider", g.provider.Name(), "attempt", attempt, "error", err)

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrInferenceTimeout, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if isTimeout(lastErr) {
		return "", fmt.Errorf("%w: %v", ErrInferenceTimeout, lastErr)
	}
	return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

const fallbackSummary = "The website content was collected successfully, but a structured summary could not be generated. The raw content is available for retraining."

func fallbackResult() *models.TrainingResult {
	return &models.TrainingResult{
		Summary: fallbackSummary,
		FAQs:    fallbackFAQs(),
	}
}

func fallbackFAQs() []models.FAQ {
	return []models.FAQ{
		{
			ID:       "faq-1",
			Question: "Why are there so few FAQs for this website?",
			Answer:   "The automatic FAQ generation did not produce a usable result for this site. Retraining the website usually resolves this.",
			Category: models.DefaultFAQCategory,
		},
	}
}

func (g *Generator) normalize(summary string, faqs []faqPayload) *models.TrainingResult {
	if strings.TrimSpace(summary) == "" {
		summary = fallbackSummary
	}
	return &models.TrainingResult{
		Summary: summary,
		FAQs:    g.normalizeFAQs(faqs),
	}
}

// normalizeFAQs drops entries without a question or answer, synthesizes
// stable ids and fills missing categories.
func (g *Generator) normalizeFAQs(in []faqPayload) []models.FAQ {
	out := make([]models.FAQ, 0, len(in))
	for _, f := range in {
		question := strings.TrimSpace(f.Question)
		answer := strings.TrimSpace(f.Answer)
		if question == "" || answer == "" {
			continue
		}
		category := strings.TrimSpace(f.Category)
		if category == "" {
			category = models.DefaultFAQCategory
		}
		out = append(out, models.FAQ{
			ID:       fmt.Sprintf("faq-%d", len(out)+1),
			Question: question,
			Answer:   answer,
			Category: category,
		})
	}
	if len(out) == 0 {
		return fallbackFAQs()
	}
	if len(out) < faqTarget {
		g.logger.Warn("model generated fewer FAQs than requested", "got", len(out), "want", faqTarget)
	}
	return out
}
