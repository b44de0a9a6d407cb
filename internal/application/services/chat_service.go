package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
)

const (
	// History is truncated to the last maxExchanges user/assistant pairs
	// before prompting; older turns stop mattering for shopping intent.
	maxExchanges = 6

	maxPreviousProducts = 12
	defaultChatLimit    = 12
	maxChatLimit        = 30
)

const chatSystemPrompt = `You are YachtDrop's AI shopping assistant — a friendly, knowledgeable marine expert.

Rules:
- Be warm, conversational, concise (2-4 sentences max)
- When products are listed below, mention 1-2 by name and why they fit
- Never invent products, prices, or stock levels; only reference the listed products
- If no products matched, say so honestly and suggest rephrasing
- Answer general boating questions briefly, then steer back to shopping
- Use € for prices`

// Pure small talk gets a lightweight reply without running the retrieval
// pipeline. Anything with product words falls through to the full path.
var chitchatRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hey|hello|yo|sup|howdy|greetings|good\s*(morning|afternoon|evening))[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(thanks|thank\s*you|thx|ty|cheers|great|awesome|perfect|cool|nice|got\s*it)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(bye|goodbye|see\s*you|later|cya|good\s*night)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(ok|okay|yes|yep|yeah|no|nope|nah|sure|maybe)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(how\s*are\s*you|what'?s\s*up|who\s*are\s*you|what\s*can\s*you\s*do)[\s!.?]*$`),
}

// ChatRequest is one assistant turn: the running conversation plus what the
// customer has already been shown
type ChatRequest struct {
	Messages         []entities.ChatMessage
	Limit            int
	PreviousProducts []string
}

// ChatResponse is the assistant reply with the products and marinas it is
// talking about
type ChatResponse struct {
	Message  string              `json:"message"`
	Products []*entities.Product `json:"products"`
	Marinas  []*entities.Marina  `json:"marinas"`
}

// ChatService orchestrates an assistant turn: plan queries, retrieve and
// filter products, then have the model respond grounded in what was found.
// Every stage degrades; a turn never errors out to the customer.
type ChatService struct {
	ai        providers.AIProvider
	planner   *QueryPlannerService
	retrieval *RetrievalService
	relevance RelevanceFilterService
	catalog   *CatalogContextService
	resolver  *CategoryResolverService
	marinas   *MarinaSearchService
}

// NewChatService creates a chat orchestrator. ai may be nil; replies then
// come from canned fallbacks while retrieval still works.
func NewChatService(
	ai providers.AIProvider,
	planner *QueryPlannerService,
	retrieval *RetrievalService,
	relevance RelevanceFilterService,
	catalog *CatalogContextService,
	resolver *CategoryResolverService,
	marinas *MarinaSearchService,
) *ChatService {
	return &ChatService{
		ai:        ai,
		planner:   planner,
		retrieval: retrieval,
		relevance: relevance,
		catalog:   catalog,
		resolver:  resolver,
		marinas:   marinas,
	}
}

// Respond produces the assistant's next turn. Panics anywhere in the
// pipeline become an apologetic reply rather than a 500.
func (s *ChatService) Respond(ctx context.Context, req ChatRequest) (resp *ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Chat turn panicked")
			resp = &ChatResponse{
				Message:  "Sorry, something went wrong on my end. Please try again in a moment!",
				Products: []*entities.Product{},
				Marinas:  []*entities.Marina{},
			}
		}
	}()

	messages := truncateHistory(req.Messages)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}
	previous := req.PreviousProducts
	if len(previous) > maxPreviousProducts {
		previous = previous[:maxPreviousProducts]
	}

	latest := ""
	if len(messages) > 0 {
		latest = strings.TrimSpace(messages[len(messages)-1].Content)
	}

	if isChitchat(latest) {
		return &ChatResponse{
			Message:  s.chitchatReply(ctx, messages),
			Products: []*entities.Product{},
			Marinas:  []*entities.Marina{},
		}
	}

	keywords := ExtractKeywords(latest)

	catalogText := ""
	if s.catalog != nil {
		text, err := s.catalog.Context(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Catalog context unavailable for planner prompt")
		} else {
			catalogText = text
		}
	}

	outcome := s.planner.Plan(ctx, messages, catalogText, previous)
	if outcome.Source == PlanSourceFallback {
		log.Debug().Str("reason", outcome.Reason).Msg("Using keyword fallback plan")
	}

	products := s.retrieval.Retrieve(ctx, outcome.Plan, limit)
	products = s.relevance.Filter(products, keywords)

	marinas := s.lookupMarinas(ctx, latest)

	return &ChatResponse{
		Message:  s.reply(ctx, messages, products),
		Products: products,
		Marinas:  marinas,
	}
}

// lookupMarinas surfaces marinas in chat only when the customer is clearly
// asking about them
func (s *ChatService) lookupMarinas(ctx context.Context, latest string) []*entities.Marina {
	if s.marinas == nil {
		return []*entities.Marina{}
	}
	lowered := strings.ToLower(latest)
	if !strings.Contains(lowered, "marina") && !strings.Contains(lowered, "harbour") && !strings.Contains(lowered, "harbor") && !strings.Contains(lowered, "port ") {
		return []*entities.Marina{}
	}

	marinas, err := s.marinas.Search(ctx, latest)
	if err != nil || marinas == nil {
		return []*entities.Marina{}
	}
	if len(marinas) > 3 {
		marinas = marinas[:3]
	}
	return marinas
}

func (s *ChatService) chitchatReply(ctx context.Context, messages []entities.ChatMessage) string {
	fallback := "Hey! How can I help you find marine supplies today?"
	if s.ai == nil {
		return fallback
	}

	turns := make([]providers.ChatTurn, 0, len(messages)+1)
	turns = append(turns, providers.ChatTurn{Role: "system", Content: chatSystemPrompt})
	for _, m := range messages {
		turns = append(turns, providers.ChatTurn{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.ai.ChatComplete(ctx, turns, 150, 0.7)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Warn().Err(err).Msg("Chitchat completion failed, using canned greeting")
		return fallback
	}
	return strings.TrimSpace(reply)
}

func (s *ChatService) reply(ctx context.Context, messages []entities.ChatMessage, products []*entities.Product) string {
	if s.ai == nil {
		return cannedReply(len(products))
	}

	turns := make([]providers.ChatTurn, 0, len(messages)+1)
	turns = append(turns, providers.ChatTurn{Role: "system", Content: chatSystemPrompt})
	for _, m := range messages[:len(messages)-1] {
		turns = append(turns, providers.ChatTurn{Role: string(m.Role), Content: m.Content})
	}

	last := messages[len(messages)-1].Content
	if context := s.buildProductContext(ctx, products); context != "" {
		last += context
	}
	turns = append(turns, providers.ChatTurn{Role: string(entities.ChatRoleUser), Content: last})

	reply, err := s.ai.ChatComplete(ctx, turns, 250, 0.6)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Warn().Err(err).Msg("Responder completion failed, using canned reply")
		return cannedReply(len(products))
	}
	return strings.TrimSpace(reply)
}

// buildProductContext appends the top retrieval hits to the customer's last
// message so the model can only talk about products that actually exist
func (s *ChatService) buildProductContext(ctx context.Context, products []*entities.Product) string {
	if len(products) == 0 {
		return ""
	}

	top := products
	if len(top) > 10 {
		top = top[:10]
	}

	var b strings.Builder
	b.WriteString("\n[PRODUCTS found for this query]\n")
	for _, p := range top {
		brand := ""
		if p.Brand != "" {
			brand = " by " + p.Brand
		}
		category := "General"
		if s.resolver != nil {
			category = s.resolver.Resolve(ctx, p.CategoryID)
		}
		desc := ""
		if p.ShortDesc != "" {
			desc = " — " + p.ShortDesc
		}
		fmt.Fprintf(&b, "- %s%s | €%.2f | %s%s\n", p.Name, brand, p.Price, category, desc)
	}
	b.WriteString("[/PRODUCTS]")
	return b.String()
}

func cannedReply(productCount int) string {
	if productCount > 0 {
		return fmt.Sprintf("Here are %d products I found for you!", productCount)
	}
	return "Hey! I'm here to help you find marine supplies. What are you looking for?"
}

func isChitchat(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 2 {
		return true
	}
	for _, re := range chitchatRes {
		if re.MatchString(strings.TrimSpace(text)) {
			return true
		}
	}
	return false
}

func truncateHistory(messages []entities.ChatMessage) []entities.ChatMessage {
	max := maxExchanges * 2
	if len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}
