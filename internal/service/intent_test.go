package service

import (
	"testing"

	"salesbot-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"this is way too expensive", models.SentimentPriceSensitive},
		{"do you have anything cheaper?", models.SentimentPriceSensitive},
		{"I love it, absolutely perfect", models.SentimentEnthusiastic},
		{"that looks nice", models.SentimentInterested},
		{"what time is it", models.SentimentNeutral},
		{"", models.SentimentNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySentiment(tt.message), "message: %q", tt.message)
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I'll take the big one", models.IntentHot},
		{"ok buy it", models.IntentHot},
		{"how much is shipping to Berlin?", models.IntentWarm},
		{"is that in stock?", models.IntentWarm},
		{"just looking for now", models.IntentBrowsing},
		{"hello there", models.IntentNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIntent(tt.message), "message: %q", tt.message)
	}
}

func TestContainsDecline(t *testing.T) {
	assert.True(t, ContainsDecline("No thanks, just the sofa"))
	assert.True(t, ContainsDecline("I don't need the cover"))
	assert.False(t, ContainsDecline("yes please add it"))
}

func TestPriceSensitiveWinsOverPraise(t *testing.T) {
	// mixed signals: the price concern matters more for governance
	assert.Equal(t, models.SentimentPriceSensitive,
		ClassifySentiment("it's beautiful but too expensive"))
}
