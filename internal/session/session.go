package session

import (
	"sync"
	"time"

	"salesbot-service/internal/models"
)

// Turn is one conversation entry kept in the bounded history
type Turn struct {
	Role string // "customer" | "assistant"
	Text string
}

// Preferences is the structured customer context accumulated across
// turns. Once set, a preference is retained until explicitly
// overwritten by a new non-empty value.
type Preferences struct {
	FurnitureType string
	Material      string
	MinSeats      int
}

// OfferState tracks one offer type within a session
type OfferState struct {
	Offered  bool
	Declined bool
	Count    int
}

// CommerceState is the per-session commercial governance state
type CommerceState struct {
	Offers     map[string]*OfferState
	LastOffer  string
	Sentiment  string
	Intent     string
	ShownSKUs  map[string]bool
	CrossSells map[string]bool
}

// Session holds all per-conversation state. Access must go through
// Lock/Unlock: the chat service holds the lock for the whole turn so
// a concurrent request for the same session cannot validate against a
// stale whitelist.
type Session struct {
	ID            string
	MessageCount  int
	Preferences   Preferences
	Whitelist     []string
	Commerce      CommerceState
	CustomerEmail string
	Postcode      string
	LastActivity  time.Time

	history     []Turn
	historyCap  int
	historyNext int
	historyLen  int

	mu sync.Mutex
}

func newSession(id string, historyCap int) *Session {
	if historyCap <= 0 {
		historyCap = 12
	}
	return &Session{
		ID: id,
		Commerce: CommerceState{
			Offers: map[string]*OfferState{
				models.OfferTypeBundle:    {},
				models.OfferTypeUpsell:    {},
				models.OfferTypeCrossSell: {},
			},
			Sentiment:  models.SentimentNeutral,
			Intent:     models.IntentNone,
			ShownSKUs:  make(map[string]bool),
			CrossSells: make(map[string]bool),
		},
		LastActivity: time.Now(),
		history:      make([]Turn, historyCap),
		historyCap:   historyCap,
	}
}

// Lock acquires the per-session mutex
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex
func (s *Session) Unlock() { s.mu.Unlock() }

// TryLock attempts to acquire the per-session mutex without blocking
func (s *Session) TryLock() bool { return s.mu.TryLock() }

// Touch updates the last-activity time and bumps the message counter
func (s *Session) Touch() {
	s.MessageCount++
	s.LastActivity = time.Now()
}

// AppendTurn records a conversation turn in the ring buffer, evicting
// the oldest entry once the cap is reached.
func (s *Session) AppendTurn(role, text string) {
	s.history[s.historyNext] = Turn{Role: role, Text: text}
	s.historyNext = (s.historyNext + 1) % s.historyCap
	if s.historyLen < s.historyCap {
		s.historyLen++
	}
}

// History returns the retained turns oldest-first
func (s *Session) History() []Turn {
	out := make([]Turn, 0, s.historyLen)
	start := s.historyNext - s.historyLen
	if start < 0 {
		start += s.historyCap
	}
	for i := 0; i < s.historyLen; i++ {
		out = append(out, s.history[(start+i)%s.historyCap])
	}
	return out
}

// Transcript renders the retained history as plain lines, used for
// the escalation email body.
func (s *Session) Transcript() []string {
	turns := s.History()
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Role+": "+t.Text)
	}
	return lines
}

// ReplaceWhitelist replaces the whitelist wholesale with the SKUs of
// the most recent search. Results are never unioned across searches:
// a new search invalidates everything the previous one surfaced.
func (s *Session) ReplaceWhitelist(skus []string) {
	s.Whitelist = append([]string(nil), skus...)
}

// InWhitelist reports whether a SKU is in the current whitelist
func (s *Session) InWhitelist(sku string) bool {
	for _, w := range s.Whitelist {
		if w == sku {
			return true
		}
	}
	return false
}

// UpdatePreferences merges newly detected preferences, keeping prior
// values when the new criteria leave a field empty.
func (s *Session) UpdatePreferences(c models.SearchCriteria) {
	if c.FurnitureType != "" {
		s.Preferences.FurnitureType = c.FurnitureType
	}
	if c.Material != "" {
		s.Preferences.Material = c.Material
	}
	if c.MinSeats > 0 {
		s.Preferences.MinSeats = c.MinSeats
	}
}
