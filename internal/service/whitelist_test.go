package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSelectionFiltersUnlisted(t *testing.T) {
	whitelist := []string{"FARO-LOUNGE-SET", "LIDO-DINING-6"}

	result := ValidateSelection([]string{"FARO-LOUNGE-SET", "FARO-COVER"}, whitelist)

	assert.Equal(t, []string{"FARO-LOUNGE-SET"}, result.Approved)
	assert.Equal(t, []string{"FARO-COVER"}, result.Rejected)
}

func TestValidateSelectionPreservesOrder(t *testing.T) {
	whitelist := []string{"A", "B", "C"}

	result := ValidateSelection([]string{"C", "A", "B"}, whitelist)

	assert.Equal(t, []string{"C", "A", "B"}, result.Approved)
	assert.Empty(t, result.Rejected)
}

func TestValidateSelectionDeduplicates(t *testing.T) {
	result := ValidateSelection([]string{"A", "A", "X", "X"}, []string{"A"})

	assert.Equal(t, []string{"A"}, result.Approved)
	assert.Equal(t, []string{"X"}, result.Rejected)
}

func TestValidateSelectionEmptyWhitelist(t *testing.T) {
	result := ValidateSelection([]string{"ANYTHING"}, nil)

	assert.Empty(t, result.Approved)
	assert.Equal(t, []string{"ANYTHING"}, result.Rejected)
}

func TestValidateSelectionEmptySelection(t *testing.T) {
	result := ValidateSelection(nil, []string{"A"})

	assert.Empty(t, result.Approved)
	assert.Empty(t, result.Rejected)
}
