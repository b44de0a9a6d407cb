package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
)

// PlanSource says whether a plan came from the model or from keyword fallback
type PlanSource string

const (
	PlanSourceAI       PlanSource = "ai"
	PlanSourceFallback PlanSource = "fallback"
)

// PlanOutcome carries the plan plus provenance so callers can log why a turn
// fell back to keywords
type PlanOutcome struct {
	Plan   *entities.SearchPlan
	Source PlanSource
	Reason string
}

// QueryPlannerService turns the latest user message into a retrieval plan.
// A deterministic keyword fallback is always computed first so planner
// failures never surface to the user.
type QueryPlannerService struct {
	ai providers.AIProvider
}

// NewQueryPlannerService creates a planner. ai may be nil, in which case
// every plan is a keyword fallback.
func NewQueryPlannerService(ai providers.AIProvider) *QueryPlannerService {
	return &QueryPlannerService{ai: ai}
}

const (
	maxPlanQueries    = 6
	maxPlanCategories = 3
)

// Matches the first {...} block, tolerating prose or fences around it.
var planJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

// Plan builds a retrieval plan for the latest message in the conversation
func (s *QueryPlannerService) Plan(ctx context.Context, messages []entities.ChatMessage, catalog string, previousProducts []string) PlanOutcome {
	userText := ""
	if len(messages) > 0 {
		userText = messages[len(messages)-1].Content
	}
	keywords := ExtractKeywords(userText)
	fallback := fallbackPlan(userText, keywords)

	if s.ai == nil {
		return PlanOutcome{Plan: fallback, Source: PlanSourceFallback, Reason: "ai provider not configured"}
	}

	raw, err := s.ai.Complete(ctx, providers.CompletionRequest{
		User:        buildPlannerPrompt(messages, catalog, previousProducts),
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Warn().Err(err).Msg("Planner completion failed, using keyword fallback")
		return PlanOutcome{Plan: fallback, Source: PlanSourceFallback, Reason: "planner call failed"}
	}

	plan, err := parsePlan(raw)
	if err != nil {
		log.Debug().Err(err).Str("raw", raw).Msg("Planner output unparseable, using keyword fallback")
		return PlanOutcome{Plan: fallback, Source: PlanSourceFallback, Reason: "planner output unparseable"}
	}

	// The planner may rephrase the request, but the user's literal terms
	// often match better in full-text search. Anchor them as query #1.
	phrase := strings.Join(keywords, " ")
	if phrase != "" && !containsQueryFold(plan.Queries, phrase) {
		plan.Queries = append([]string{phrase}, plan.Queries...)
	}

	if len(plan.Queries) > maxPlanQueries {
		plan.Queries = plan.Queries[:maxPlanQueries]
	}
	if len(plan.Categories) > maxPlanCategories {
		plan.Categories = plan.Categories[:maxPlanCategories]
	}

	return PlanOutcome{Plan: plan, Source: PlanSourceAI}
}

func fallbackPlan(userText string, keywords []string) *entities.SearchPlan {
	var queries []string
	switch {
	case len(keywords) > 1:
		// Full phrase first for the best full-text match, then the
		// individual keywords for broader coverage.
		queries = append([]string{strings.Join(keywords, " ")}, keywords...)
	case len(keywords) == 1:
		queries = keywords
	default:
		queries = []string{userText}
	}
	return &entities.SearchPlan{Queries: queries}
}

func parsePlan(raw string) (*entities.SearchPlan, error) {
	jsonText := raw
	if match := planJSONRe.FindString(raw); match != "" {
		jsonText = match
	}

	var parsed struct {
		Queries    []string `json:"queries"`
		Categories []string `json:"categories"`
		PriceMax   *float64 `json:"priceMax"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(parsed.Queries))
	for _, q := range parsed.Queries {
		if trimmed := strings.TrimSpace(q); trimmed != "" {
			queries = append(queries, trimmed)
		}
	}
	if len(queries) == 0 {
		return nil, errors.New("plan has no queries")
	}

	return &entities.SearchPlan{
		Queries:    queries,
		Categories: parsed.Categories,
		PriceMax:   parsed.PriceMax,
	}, nil
}

func containsQueryFold(queries []string, phrase string) bool {
	for _, q := range queries {
		if strings.EqualFold(q, phrase) {
			return true
		}
	}
	return false
}

func buildPlannerPrompt(messages []entities.ChatMessage, catalog string, previousProducts []string) string {
	latest := ""
	if len(messages) > 0 {
		latest = messages[len(messages)-1].Content
	}

	history := ""
	if len(messages) > 1 {
		start := len(messages) - 5
		if start < 0 {
			start = 0
		}
		var b strings.Builder
		b.WriteString("Conversation:\n")
		for _, m := range messages[start : len(messages)-1] {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
		history = b.String()
	}

	prevContext := ""
	if len(previousProducts) > 0 {
		prevContext = fmt.Sprintf("Previously shown: %s\n", strings.Join(previousProducts, ", "))
	}

	return fmt.Sprintf(`You are a search query planner for YachtDrop, a marine/yacht supplies e-commerce store.

%s
%s
%sCustomer: %q

Output ONLY valid JSON. No markdown, no explanation.
{"queries":["phrase1","phrase2"],"categories":["Cat Name"],"priceMax":null}

Rules:
1. queries = 1-4 search phrases for our product database. Keep multi-word terms together ("boat cover", "LED light", not "boat","cover")
2. categories = 0-3 category names from the list above (exact match)
3. priceMax = number if budget mentioned, else null
4. "something cheaper" / "alternatives" → use conversation context to search same product type
5. Brand queries ("3M", "PLASTIMO") → include brand name in queries`,
		catalog, prevContext, history, latest)
}
