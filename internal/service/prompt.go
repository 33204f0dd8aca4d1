package service

import (
	"fmt"
	"strings"

	"salesbot-service/internal/ai"
	"salesbot-service/internal/models"
	"salesbot-service/internal/session"
)

const personaPrompt = `You are a friendly garden-furniture sales assistant.
You help customers choose a set, answer material and care questions, and
guide them towards an order. You never invent product names, prices or
stock figures: product facts are rendered by the server from verified
catalog data. When the customer wants to see products, request the
"search" tool with structured criteria instead of describing products
yourself.`

// buildSystemPrompt assembles the per-turn system prompt from session
// state: accumulated preferences, the current whitelist and the
// commercial flags. The model may only select SKUs from the whitelist;
// everything else is stripped before rendering anyway.
func buildSystemPrompt(sess *session.Session) string {
	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\n")

	if p := sess.Preferences; p.FurnitureType != "" || p.Material != "" || p.MinSeats > 0 {
		b.WriteString("Known customer preferences:\n")
		if p.FurnitureType != "" {
			fmt.Fprintf(&b, "- furniture type: %s\n", p.FurnitureType)
		}
		if p.Material != "" {
			fmt.Fprintf(&b, "- material: %s\n", p.Material)
		}
		if p.MinSeats > 0 {
			fmt.Fprintf(&b, "- minimum seats: %d\n", p.MinSeats)
		}
		b.WriteString("\n")
	}

	if len(sess.Whitelist) > 0 {
		b.WriteString("SKUs you may reference this turn (selected_skus must be a subset):\n")
		for _, sku := range sess.Whitelist {
			fmt.Fprintf(&b, "- %s\n", sku)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No search has run yet, so you may not reference any SKU. Use the search tool first.\n\n")
	}

	fmt.Fprintf(&b, "Customer sentiment: %s. Purchase intent: %s.\n",
		sess.Commerce.Sentiment, sess.Commerce.Intent)

	return b.String()
}

// buildSearchResultsMessage injects fresh search results into the
// second model pass of a tool-augmented turn.
func buildSearchResultsMessage(results []models.ProductSummary) ai.Message {
	var b strings.Builder
	b.WriteString("Search results (choose which to show via selected_skus):\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s | %s | category=%s | seats=%d | material=%s\n",
			r.SKU, r.Name, r.Category, r.Seats, r.Material)
	}
	return ai.Message{Role: "system", Text: b.String()}
}

// historyMessages converts the session ring buffer to model messages
func historyMessages(sess *session.Session) []ai.Message {
	turns := sess.History()
	msgs := make([]ai.Message, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == "assistant" {
			role = "assistant"
		}
		msgs = append(msgs, ai.Message{Role: role, Text: t.Text})
	}
	return msgs
}
