package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"salesbot-service/internal/ai"
	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"
	"salesbot-service/internal/search"
	"salesbot-service/internal/session"
	"salesbot-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Turn routes
const (
	routeFastPathClosing = "fast_path_closing"
	routeToolTurn        = "tool_turn"
	routeModelTurn       = "model_turn"
)

const (
	retryReply = "Sorry, we're having a technical issue on our end. Please try again in a moment."

	unavailableReply = "Those items just became unavailable — let's find you some alternatives. " +
		"What are you looking for?"

	closingReply = "Great choice! To get your order moving, could you share your email address " +
		"and postcode? A colleague will confirm delivery right away."
)

// EventSink receives domain events for the analytics stream. Failures
// are the publisher's problem; the chat turn never fails on events.
type EventSink interface {
	PublishTurnCompleted(ctx context.Context, event *models.TurnCompletedEvent) error
	PublishSearchExecuted(ctx context.Context, event *models.SearchExecutedEvent) error
	PublishWhitelistViolation(ctx context.Context, event *models.WhitelistViolationEvent) error
	PublishOfferMade(ctx context.Context, event *models.OfferMadeEvent) error
	PublishCheckoutInitiated(ctx context.Context, event *models.CheckoutInitiatedEvent) error
	PublishHandoffRequested(ctx context.Context, event *models.HandoffRequestedEvent) error
}

// ChatService orchestrates one chat turn: classify intent, dispatch to
// the closing fast path, a tool-augmented model turn, or a plain model
// turn. The per-session lock is held for the whole turn so the
// whitelist can never be validated against a stale search.
type ChatService struct {
	sessions   *session.Store
	engine     *search.Engine
	stock      *StockResolver
	renderer   *CardRenderer
	governance *Governance
	model      ai.Completer
	events     EventSink
	index      *catalog.Index
	logger     *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	sessions *session.Store,
	engine *search.Engine,
	stock *StockResolver,
	renderer *CardRenderer,
	governance *Governance,
	model ai.Completer,
	events EventSink,
	index *catalog.Index,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessions:   sessions,
		engine:     engine,
		stock:      stock,
		renderer:   renderer,
		governance: governance,
		model:      model,
		events:     events,
		index:      index,
		logger:     logger,
	}
}

// HandleMessage handles one inbound customer message and returns the
// customer-visible reply. It never surfaces internal error detail; a
// failed model call degrades to a retry message.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID, message string) string {
	ctx, span := util.StartSpan(ctx, "ChatService.HandleMessage")
	defer span.End()

	sess := s.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	sess.Touch()
	sess.AppendTurn("customer", message)
	s.governance.ObserveMessage(sess, message)

	var (
		route    string
		response string
		cards    int
	)

	// Hottest intent bypasses the model entirely. An explicit fast
	// path, not a fallback: the customer said "I'll take it" and the
	// server can close without a round-trip.
	if ClassifyIntent(message) == models.IntentHot && len(sess.Whitelist) > 0 {
		route = routeFastPathClosing
		response, cards = s.closingResponse(ctx, sess, sess.Whitelist)
		util.IntentFastPathTotal.Inc()
	} else {
		route, response, cards = s.modelTurn(ctx, sess, message)
	}

	sess.AppendTurn("assistant", response)
	util.ChatTurnsTotal.WithLabelValues(route).Inc()

	s.publishTurnCompleted(ctx, sess, route, cards)
	return response
}

// modelTurn runs the model with the session prompt and dispatches on
// the structured reply: tool request, SKU selection, or plain text.
func (s *ChatService) modelTurn(ctx context.Context, sess *session.Session, message string) (route, response string, cards int) {
	raw, err := s.model.GenerateTurn(ctx, buildSystemPrompt(sess), historyMessages(sess))
	if err != nil {
		util.ChatTurnsFailedTotal.WithLabelValues("model_error").Inc()
		s.logger.Error("Model turn failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return routeModelTurn, retryReply, 0
	}

	reply := ai.ParseTurn(raw)

	if reply.Tool != "" {
		return s.handleTool(ctx, sess, reply)
	}

	if len(reply.SelectedSKUs) > 0 {
		response, cards = s.renderSelection(ctx, sess, reply.SelectedSKUs, reply.Reply)
		return routeModelTurn, response, cards
	}

	return routeModelTurn, reply.Reply, 0
}

func (s *ChatService) handleTool(ctx context.Context, sess *session.Session, reply *ai.TurnReply) (route, response string, cards int) {
	switch reply.Tool {
	case ai.ToolSearch:
		response, cards = s.searchTurn(ctx, sess, reply)
		return routeToolTurn, response, cards

	case ai.ToolMaterialInfo:
		var args ai.MaterialInfoArgs
		_ = json.Unmarshal(reply.ToolArgs, &args)
		return routeToolTurn, s.materialInfo(sess, args), 0

	case ai.ToolEmailCapture:
		var args ai.EmailCaptureArgs
		_ = json.Unmarshal(reply.ToolArgs, &args)
		if args.Email != "" {
			sess.CustomerEmail = args.Email
		}
		if args.Postcode != "" {
			sess.Postcode = args.Postcode
		}
		if reply.Reply != "" {
			return routeToolTurn, reply.Reply, 0
		}
		return routeToolTurn, "Thanks! I've noted your details — a colleague will be in touch shortly.", 0

	case ai.ToolHumanHandoff:
		s.publishHandoff(ctx, sess, "model_requested")
		return routeToolTurn, "I've passed your conversation to a colleague who will pick this up personally. " +
			"Is there anything else I can help with in the meantime?", 0

	case ai.ToolCheckoutInit:
		selection := reply.SelectedSKUs
		if len(selection) == 0 {
			selection = sess.Whitelist
		}
		response, cards = s.closingResponse(ctx, sess, selection)
		return routeToolTurn, response, cards

	default:
		s.logger.Warn("Model requested unknown tool",
			zap.String("session_id", sess.ID),
			zap.String("tool", reply.Tool))
		if reply.Reply != "" {
			return routeModelTurn, reply.Reply, 0
		}
		return routeModelTurn, retryReply, 0
	}
}

// searchTurn runs the search engine, replaces the whitelist with the
// results, and lets the model pick which results to present in a
// second pass. Everything it picks is still validated: search results
// are the only path onto the whitelist.
func (s *ChatService) searchTurn(ctx context.Context, sess *session.Session, reply *ai.TurnReply) (string, int) {
	var args ai.SearchArgs
	_ = json.Unmarshal(reply.ToolArgs, &args)

	sess.UpdatePreferences(models.SearchCriteria{
		FurnitureType: args.FurnitureType,
		Material:      args.Material,
		MinSeats:      args.MinSeats,
	})

	criteria := models.SearchCriteria{
		FurnitureType: sess.Preferences.FurnitureType,
		Material:      sess.Preferences.Material,
		MinSeats:      sess.Preferences.MinSeats,
		NameQuery:     args.NameQuery,
	}

	results := s.engine.Search(ctx, criteria)

	skus := make([]string, 0, len(results))
	for _, r := range results {
		skus = append(skus, r.SKU)
	}
	sess.ReplaceWhitelist(skus)

	s.publishEvent(ctx, func() error {
		return s.events.PublishSearchExecuted(ctx, &models.SearchExecutedEvent{
			BaseEvent: newBaseEvent(models.EventTypeSearchExecuted),
			SessionID: sess.ID,
			Criteria:  criteria,
			Results:   skus,
		})
	})

	if len(results) == 0 {
		return "I couldn't find anything matching that exactly. " +
			"Would a different material or a smaller set work for you?", 0
	}

	// Second pass: the model chooses which results to present.
	raw, err := s.model.GenerateTurn(ctx, buildSystemPrompt(sess),
		append(historyMessages(sess), buildSearchResultsMessage(results)))
	if err != nil {
		s.logger.Warn("Result-selection pass failed, presenting all results",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return s.renderSelection(ctx, sess, skus, "")
	}

	second := ai.ParseTurn(raw)
	selection := second.SelectedSKUs
	if len(selection) == 0 {
		selection = skus
	}

	return s.renderSelection(ctx, sess, selection, second.Reply)
}

// renderSelection validates a model selection against the whitelist,
// renders the approved cards and appends at most one governance offer.
func (s *ChatService) renderSelection(ctx context.Context, sess *session.Session, selected []string, leadText string) (string, int) {
	result := ValidateSelection(selected, sess.Whitelist)

	if len(result.Rejected) > 0 {
		util.WhitelistRejectionsTotal.Add(float64(len(result.Rejected)))
		s.logger.Warn("Rejected model-selected SKUs outside whitelist",
			zap.String("session_id", sess.ID),
			zap.Strings("rejected", result.Rejected))

		s.publishEvent(ctx, func() error {
			return s.events.PublishWhitelistViolation(ctx, &models.WhitelistViolationEvent{
				BaseEvent:    newBaseEvent(models.EventTypeWhitelistViolation),
				SessionID:    sess.ID,
				RejectedSKUs: result.Rejected,
				Whitelist:    sess.Whitelist,
			})
		})
	}

	cards := s.renderer.RenderBatch(ctx, result.Approved)
	if len(cards) == 0 {
		return unavailableReply, 0
	}

	for _, card := range cards {
		sess.Commerce.ShownSKUs[card.SKU] = true
	}

	parts := make([]string, 0, len(cards)+2)
	if leadText != "" {
		parts = append(parts, leadText)
	}
	for _, card := range cards {
		parts = append(parts, card.Body)
	}

	if offer := s.governance.BuildOffer(ctx, sess, s.index.BySKU(cards[0].SKU)); offer != nil {
		s.governance.RecordOffer(sess, offer)
		parts = append(parts, offer.Text)

		s.publishEvent(ctx, func() error {
			return s.events.PublishOfferMade(ctx, &models.OfferMadeEvent{
				BaseEvent: newBaseEvent(models.EventTypeOfferMade),
				SessionID: sess.ID,
				OfferType: offer.Type,
				SKU:       offer.SKU,
			})
		})
	}

	return strings.Join(parts, "\n\n"), len(cards)
}

// closingResponse is the checkout flow: re-render the chosen SKUs one
// last time (stock may have moved) and ask for contact details. With
// contact already captured, the turn escalates to a human directly.
func (s *ChatService) closingResponse(ctx context.Context, sess *session.Session, selection []string) (string, int) {
	result := ValidateSelection(selection, sess.Whitelist)
	cards := s.renderer.RenderBatch(ctx, result.Approved)
	if len(cards) == 0 {
		return unavailableReply, 0
	}

	skus := make([]string, 0, len(cards))
	for _, card := range cards {
		skus = append(skus, card.SKU)
	}

	s.publishEvent(ctx, func() error {
		return s.events.PublishCheckoutInitiated(ctx, &models.CheckoutInitiatedEvent{
			BaseEvent: newBaseEvent(models.EventTypeCheckoutInitiated),
			SessionID: sess.ID,
			SKUs:      skus,
		})
	})

	parts := make([]string, 0, len(cards)+1)
	for _, card := range cards {
		parts = append(parts, card.Body)
	}

	if sess.CustomerEmail != "" {
		s.publishHandoff(ctx, sess, "checkout")
		parts = append(parts, "Perfect — a colleague will contact you at "+sess.CustomerEmail+
			" to confirm your order and delivery.")
	} else {
		parts = append(parts, closingReply)
	}

	return strings.Join(parts, "\n\n"), len(cards)
}

// materialInfo answers warranty/durability questions from catalog care
// entries. SKU-specific answers require the SKU to be on the current
// whitelist; otherwise the lookup degrades to a material-wide answer.
func (s *ChatService) materialInfo(sess *session.Session, args ai.MaterialInfoArgs) string {
	if args.SKU != "" && sess.InWhitelist(args.SKU) {
		if p := s.index.BySKU(args.SKU); p != nil && len(p.Care) > 0 {
			return formatCare(p.Name, p.Care)
		}
	}

	if args.Material != "" {
		needle := strings.ToLower(args.Material)
		for _, p := range s.index.All() {
			for _, care := range p.Care {
				if strings.Contains(strings.ToLower(care.Material), needle) {
					return formatCare(care.Material, []models.CareEntry{care})
				}
			}
		}
	}

	return "Which material would you like to know more about? We carry rattan, teak and aluminium sets."
}

func formatCare(subject string, entries []models.CareEntry) string {
	var b strings.Builder
	b.WriteString("About " + subject + ":\n")
	for _, e := range entries {
		if e.Warranty != "" {
			b.WriteString("- Warranty: " + e.Warranty + "\n")
		}
		if e.Durability != "" {
			b.WriteString("- Durability: " + e.Durability + "\n")
		}
		if e.Pros != "" {
			b.WriteString("- Pros: " + e.Pros + "\n")
		}
		if e.Cons != "" {
			b.WriteString("- Cons: " + e.Cons + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ChatService) publishHandoff(ctx context.Context, sess *session.Session, reason string) {
	s.publishEvent(ctx, func() error {
		return s.events.PublishHandoffRequested(ctx, &models.HandoffRequestedEvent{
			BaseEvent:     newBaseEvent(models.EventTypeHandoffRequested),
			SessionID:     sess.ID,
			CustomerEmail: sess.CustomerEmail,
			Postcode:      sess.Postcode,
			Transcript:    sess.Transcript(),
			Reason:        reason,
		})
	})
}

func (s *ChatService) publishTurnCompleted(ctx context.Context, sess *session.Session, route string, cards int) {
	s.publishEvent(ctx, func() error {
		return s.events.PublishTurnCompleted(ctx, &models.TurnCompletedEvent{
			BaseEvent:    newBaseEvent(models.EventTypeTurnCompleted),
			SessionID:    sess.ID,
			Route:        route,
			MessageCount: sess.MessageCount,
			Intent:       sess.Commerce.Intent,
			Sentiment:    sess.Commerce.Sentiment,
			CardsShown:   cards,
		})
	})
}

func (s *ChatService) publishEvent(_ context.Context, publish func() error) {
	if s.events == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.Error("Failed to publish event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
