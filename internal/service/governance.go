package service

import (
	"context"
	"fmt"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"
	"salesbot-service/internal/session"
	"salesbot-service/internal/util"

	"go.uber.org/zap"
)

// Rules are the configurable guards on commercial offers
type Rules struct {
	MaxOffersPerSession  int
	MinMessagesForUpsell int
}

// Governance decides when bundle/upsell/cross-sell content may be
// appended to a reply. Eligibility is a pure function of current
// session state plus the rule set, evaluated fresh every turn; offers
// only ever fire at the point a card is rendered, never spontaneously.
type Governance struct {
	rules  Rules
	index  *catalog.Index
	stock  *StockResolver
	logger *zap.Logger
}

// NewGovernance creates a new governance machine
func NewGovernance(rules Rules, index *catalog.Index, stock *StockResolver, logger *zap.Logger) *Governance {
	return &Governance{
		rules:  rules,
		index:  index,
		stock:  stock,
		logger: logger,
	}
}

// ObserveMessage folds a customer message into the session's
// commercial state: sentiment strengthens monotonically, purchase
// intent tracks the strongest level seen, and a decline keyword
// disables the most recently offered type for the rest of the session.
func (g *Governance) ObserveMessage(sess *session.Session, message string) {
	if s := ClassifySentiment(message); sentimentRank(s) > sentimentRank(sess.Commerce.Sentiment) {
		sess.Commerce.Sentiment = s
	}

	if i := ClassifyIntent(message); intentRank(i) > intentRank(sess.Commerce.Intent) {
		sess.Commerce.Intent = i
	}

	if ContainsDecline(message) && sess.Commerce.LastOffer != "" {
		if st := sess.Commerce.Offers[sess.Commerce.LastOffer]; st != nil && st.Offered && !st.Declined {
			st.Declined = true
			g.logger.Info("Offer declined",
				zap.String("session_id", sess.ID),
				zap.String("offer_type", sess.Commerce.LastOffer))
		}
	}
}

// Eligible reports whether an offer type may fire right now
func (g *Governance) Eligible(sess *session.Session, offerType string) bool {
	st := sess.Commerce.Offers[offerType]
	if st == nil || st.Declined {
		return false
	}

	total := 0
	for _, o := range sess.Commerce.Offers {
		total += o.Count
	}
	if total >= g.rules.MaxOffersPerSession {
		return false
	}

	if offerType == models.OfferTypeUpsell {
		if sess.MessageCount < g.rules.MinMessagesForUpsell {
			return false
		}
		if sess.Commerce.Sentiment == models.SentimentPriceSensitive {
			return false
		}
	}

	return true
}

// Offer is commercial content appended after a rendered card. Its text
// is built exclusively from catalog fields.
type Offer struct {
	Type string
	SKU  string
	Text string
}

// BuildOffer proposes at most one offer for the product just rendered,
// preferring bundle (matching cover) over cross-sell (accessory) over
// upsell (larger set). Returns nil when nothing is eligible or every
// candidate is out of stock.
func (g *Governance) BuildOffer(ctx context.Context, sess *session.Session, anchor *models.Product) *Offer {
	if anchor == nil {
		return nil
	}

	if offer := g.bundleOffer(ctx, sess, anchor); offer != nil {
		return offer
	}
	if offer := g.crossSellOffer(ctx, sess, anchor); offer != nil {
		return offer
	}
	return g.upsellOffer(ctx, sess, anchor)
}

// RecordOffer marks an offer as made and updates the counters
func (g *Governance) RecordOffer(sess *session.Session, offer *Offer) {
	st := sess.Commerce.Offers[offer.Type]
	if st == nil {
		st = &session.OfferState{}
		sess.Commerce.Offers[offer.Type] = st
	}
	st.Offered = true
	st.Count++
	sess.Commerce.LastOffer = offer.Type
	if offer.Type == models.OfferTypeCrossSell && offer.SKU != "" {
		sess.Commerce.CrossSells[offer.SKU] = true
	}

	util.OffersMadeTotal.WithLabelValues(offer.Type).Inc()
}

func (g *Governance) bundleOffer(ctx context.Context, sess *session.Session, anchor *models.Product) *Offer {
	if !g.Eligible(sess, models.OfferTypeBundle) || anchor.MatchingCoverSKU == "" {
		return nil
	}

	cover := g.index.BySKU(anchor.MatchingCoverSKU)
	if cover == nil || !g.stock.ResolveStock(ctx, cover.SKU).InStock {
		return nil
	}

	return &Offer{
		Type: models.OfferTypeBundle,
		SKU:  cover.SKU,
		Text: fmt.Sprintf("Many customers pair the %s with the %s (%s) to protect it year-round. Shall I add it?",
			anchor.Name, cover.Name, formatMinorPrice(cover.ListPrice)),
	}
}

func (g *Governance) crossSellOffer(ctx context.Context, sess *session.Session, anchor *models.Product) *Offer {
	if !g.Eligible(sess, models.OfferTypeCrossSell) {
		return nil
	}

	for _, sku := range anchor.AccessorySKUs {
		if sess.Commerce.CrossSells[sku] {
			continue
		}
		accessory := g.index.BySKU(sku)
		if accessory == nil || !g.stock.ResolveStock(ctx, sku).InStock {
			continue
		}
		return &Offer{
			Type: models.OfferTypeCrossSell,
			SKU:  sku,
			Text: fmt.Sprintf("The %s (%s) goes well with this set. Would you like a look?",
				accessory.Name, formatMinorPrice(accessory.ListPrice)),
		}
	}
	return nil
}

// upsellOffer points at the next larger in-stock set in the same
// category, if one exists.
func (g *Governance) upsellOffer(ctx context.Context, sess *session.Session, anchor *models.Product) *Offer {
	if !g.Eligible(sess, models.OfferTypeUpsell) || anchor.Seats <= 0 {
		return nil
	}

	var best *models.Product
	for _, p := range g.index.ByCategory(anchor.Category) {
		if p.SKU == anchor.SKU || p.Seats <= anchor.Seats {
			continue
		}
		if !g.stock.ResolveStock(ctx, p.SKU).InStock {
			continue
		}
		if best == nil || p.Seats < best.Seats {
			best = p
		}
	}
	if best == nil {
		return nil
	}

	return &Offer{
		Type: models.OfferTypeUpsell,
		SKU:  best.SKU,
		Text: fmt.Sprintf("If you sometimes host more people, the %s seats %d (%s). Want to compare?",
			best.Name, best.Seats, formatMinorPrice(best.ListPrice)),
	}
}
