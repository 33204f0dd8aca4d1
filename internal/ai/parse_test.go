package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTurnDirectJSON(t *testing.T) {
	reply := ParseTurn(`{"intent":"browsing","reply":"Here you go","selected_skus":["FARO-LOUNGE-SET"]}`)

	assert.Equal(t, "browsing", reply.Intent)
	assert.Equal(t, "Here you go", reply.Reply)
	assert.Equal(t, []string{"FARO-LOUNGE-SET"}, reply.SelectedSKUs)
}

func TestParseTurnToolWithArgs(t *testing.T) {
	reply := ParseTurn(`{"intent":"browsing","tool":"search","tool_args":{"furniture_type":"lounge","min_seats":6}}`)

	require.Equal(t, ToolSearch, reply.Tool)

	var args SearchArgs
	require.NoError(t, json.Unmarshal(reply.ToolArgs, &args))
	assert.Equal(t, "lounge", args.FurnitureType)
	assert.Equal(t, 6, args.MinSeats)
}

func TestParseTurnStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"intent\":\"chat\",\"reply\":\"Hello!\"}\n```"

	reply := ParseTurn(raw)

	assert.Equal(t, "chat", reply.Intent)
	assert.Equal(t, "Hello!", reply.Reply)
}

func TestParseTurnFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"intent\":\"chat\",\"reply\":\"Hi\"}\n```"

	reply := ParseTurn(raw)

	assert.Equal(t, "Hi", reply.Reply)
}

func TestParseTurnRecoversObjectFromChatter(t *testing.T) {
	raw := `Sure, here is my answer: {"intent":"chat","reply":"The Faro is rattan."} Hope that helps!`

	reply := ParseTurn(raw)

	assert.Equal(t, "The Faro is rattan.", reply.Reply)
}

func TestParseTurnBracesInsideStrings(t *testing.T) {
	raw := `noise {"intent":"chat","reply":"sizes are {S, M, L}"} trailing`

	reply := ParseTurn(raw)

	assert.Equal(t, "sizes are {S, M, L}", reply.Reply)
}

func TestParseTurnPlainTextFallsBack(t *testing.T) {
	reply := ParseTurn("You should totally buy the Faro set!")

	assert.Equal(t, "chat", reply.Intent)
	assert.NotEmpty(t, reply.Reply)
	assert.Empty(t, reply.SelectedSKUs)
	assert.Empty(t, reply.Tool)
}

func TestParseTurnEmptyFallsBack(t *testing.T) {
	reply := ParseTurn("   ")

	assert.Equal(t, "chat", reply.Intent)
	assert.NotEmpty(t, reply.Reply)
}

func TestParseTurnJSONArrayFallsBack(t *testing.T) {
	reply := ParseTurn(`["FARO-LOUNGE-SET","FARO-COVER"]`)

	assert.Equal(t, "chat", reply.Intent)
	assert.Empty(t, reply.SelectedSKUs, "a bare array is not a valid turn shape")
}

func TestParseTurnRepairsMissingIntent(t *testing.T) {
	reply := ParseTurn(`{"reply":"Happy to help"}`)

	assert.Equal(t, "chat", reply.Intent)
	assert.Equal(t, "Happy to help", reply.Reply)
}

func TestParseTurnEmptyObjectGetsFallbackReply(t *testing.T) {
	reply := ParseTurn(`{}`)

	assert.Equal(t, "chat", reply.Intent)
	assert.NotEmpty(t, reply.Reply, "an empty turn must still say something")
}
