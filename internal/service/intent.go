package service

import (
	"strings"

	"salesbot-service/internal/models"
)

// keywordRule tags a classification with the substrings that trigger
// it. Rules are ordered: the first match wins. Keeping these as data
// tables makes them testable and tunable without touching control
// flow.
type keywordRule struct {
	label    string
	keywords []string
}

var sentimentRules = []keywordRule{
	{models.SentimentPriceSensitive, []string{
		"too expensive", "expensive", "cheaper", "discount", "on a budget",
		"cost a lot", "price is high",
	}},
	{models.SentimentEnthusiastic, []string{
		"love it", "love this", "perfect", "beautiful", "amazing", "exactly what",
	}},
	{models.SentimentInterested, []string{
		"looks nice", "looks good", "i like", "interested", "tell me more",
	}},
}

var intentRules = []keywordRule{
	{models.IntentHot, []string{
		"i'll take", "i will take", "buy it", "buy now", "order it",
		"place the order", "checkout", "i want to buy", "take it",
	}},
	{models.IntentWarm, []string{
		"how much", "delivery", "in stock", "when can", "shipping",
		"can i order", "available",
	}},
	{models.IntentBrowsing, []string{
		"just looking", "browsing", "having a look", "what do you have",
	}},
}

var declineKeywords = []string{
	"no thanks", "no thank you", "not interested", "rather not",
	"just the", "don't need", "do not need", "skip that",
}

// ClassifySentiment returns the sentiment signalled by a single
// customer message, or NEUTRAL when nothing matches.
func ClassifySentiment(message string) string {
	return classify(message, sentimentRules, models.SentimentNeutral)
}

// ClassifyIntent returns the purchase-intent level for a message
func ClassifyIntent(message string) string {
	return classify(message, intentRules, models.IntentNone)
}

// ContainsDecline reports whether the message declines the current
// offer. A decline resets the current offer type's eligibility, not
// the session's sentiment.
func ContainsDecline(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range declineKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func classify(message string, rules []keywordRule, fallback string) string {
	lowered := strings.ToLower(message)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.label
			}
		}
	}
	return fallback
}

// sentimentRank orders sentiment weakest to strongest; within a
// session sentiment only ever strengthens.
func sentimentRank(sentiment string) int {
	switch sentiment {
	case models.SentimentInterested:
		return 1
	case models.SentimentPriceSensitive:
		return 2
	case models.SentimentEnthusiastic:
		return 3
	default:
		return 0
	}
}

// intentRank orders purchase intent levels
func intentRank(intent string) int {
	switch intent {
	case models.IntentBrowsing:
		return 1
	case models.IntentWarm:
		return 2
	case models.IntentHot:
		return 3
	default:
		return 0
	}
}
