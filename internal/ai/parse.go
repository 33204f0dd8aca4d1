package ai

import (
	"encoding/json"
	"strings"

	"salesbot-service/internal/util"
)

// Tool names the model may request
const (
	ToolSearch       = "search"
	ToolMaterialInfo = "material_info"
	ToolHumanHandoff = "human_handoff"
	ToolEmailCapture = "email_capture"
	ToolCheckoutInit = "checkout_init"
)

// TurnReply is the structured turn the model is asked to produce
type TurnReply struct {
	Intent       string          `json:"intent"`
	Reply        string          `json:"reply,omitempty"`
	SelectedSKUs []string        `json:"selected_skus,omitempty"`
	Tool         string          `json:"tool,omitempty"`
	ToolArgs     json.RawMessage `json:"tool_args,omitempty"`
}

// fallbackReply is the deterministic object produced when nothing
// usable can be recovered from the model output. Raw model text is
// never forwarded as if it were structured.
func fallbackReply() *TurnReply {
	return &TurnReply{
		Intent: "chat",
		Reply:  "Could you tell me a bit more about what you're looking for?",
	}
}

// ParseTurn recovers a structured turn from raw model output through a
// layered chain: direct unmarshal, then markdown-fence stripping, then
// a first-JSON-object scan, then the deterministic fallback. It never
// fails; malformed model output is an expected input, not an error.
func ParseTurn(raw string) *TurnReply {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		util.ModelFallbacksTotal.WithLabelValues("empty").Inc()
		return fallbackReply()
	}

	if reply := tryUnmarshal(raw); reply != nil {
		return finalize(reply)
	}

	if stripped := stripFences(raw); stripped != raw {
		if reply := tryUnmarshal(stripped); reply != nil {
			util.ModelFallbacksTotal.WithLabelValues("fenced").Inc()
			return finalize(reply)
		}
	}

	if block := firstObject(raw); block != "" {
		if reply := tryUnmarshal(block); reply != nil {
			util.ModelFallbacksTotal.WithLabelValues("scanned").Inc()
			return finalize(reply)
		}
	}

	util.ModelFallbacksTotal.WithLabelValues("unparseable").Inc()
	return fallbackReply()
}

func tryUnmarshal(s string) *TurnReply {
	var reply TurnReply
	if err := json.Unmarshal([]byte(s), &reply); err != nil {
		return nil
	}
	return &reply
}

// finalize repairs a structurally valid but incomplete reply
func finalize(reply *TurnReply) *TurnReply {
	if reply.Intent == "" {
		util.ModelFallbacksTotal.WithLabelValues("missing_intent").Inc()
		reply.Intent = "chat"
	}
	if reply.Reply == "" && reply.Tool == "" && len(reply.SelectedSKUs) == 0 {
		reply.Reply = fallbackReply().Reply
	}
	return reply
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 8 && !strings.Contains(first, "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// firstObject extracts the first balanced {...} block, tolerating
// chatter around the JSON. String-aware so braces inside values do not
// unbalance the scan.
func firstObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// SearchArgs are the tool arguments for a search request
type SearchArgs struct {
	FurnitureType string `json:"furniture_type,omitempty"`
	Material      string `json:"material,omitempty"`
	MinSeats      int    `json:"min_seats,omitempty"`
	NameQuery     string `json:"name_query,omitempty"`
}

// MaterialInfoArgs are the tool arguments for a material-info lookup
type MaterialInfoArgs struct {
	SKU      string `json:"sku,omitempty"`
	Material string `json:"material,omitempty"`
}

// EmailCaptureArgs are the tool arguments for contact capture
type EmailCaptureArgs struct {
	Email    string `json:"email,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}
