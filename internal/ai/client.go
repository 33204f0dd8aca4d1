package ai

import (
	"context"
	"time"

	"salesbot-service/internal/util"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Message is the model-facing dialogue format
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

// Completer is the model boundary: prompt in, raw text out. The rest
// of the service treats the model as a black box behind this port.
type Completer interface {
	GenerateTurn(ctx context.Context, systemPrompt string, history []Message) (string, error)
}

// jsonGuard is appended as the LAST system message so the model cannot
// be talked out of the output format by earlier context.
const jsonGuard = `Respond with VALID JSON only. No text outside the JSON.
Shape: {"intent":"...","reply":"...","selected_skus":[...],"tool":"...","tool_args":{...}}
Allowed tools: search, material_info, human_handoff, email_capture, checkout_init.
Output violating this shape is discarded.`

// OpenAIClient implements Completer against the OpenAI chat API
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIClient creates a new model client with a bounded per-call
// timeout. The request path must never be unbounded on the model.
func NewOpenAIClient(apiKey, model string, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateTurn sends the system prompt plus bounded history and
// returns the raw model text. Parsing and recovery happen in ParseTurn.
func (c *OpenAIClient) GenerateTurn(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		util.ModelCallLatency.Observe(time.Since(start).Seconds())
	}()

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	// format guard goes last
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: jsonGuard,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		c.logger.Error("Model completion failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn("Model returned no choices")
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
