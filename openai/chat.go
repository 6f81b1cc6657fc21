package openai

import (
	"context"
	"sync"

	"github.com/lgc202/openai-kit/httpx"
)

// ChatClient holds one conversation. It is safe for concurrent use: each
// Completion sends a snapshot of the conversation taken when it starts.
type ChatClient struct {
	tr *transport

	mu       sync.Mutex
	messages []Message
}

// AddMessage appends a message. Roles outside system, user and assistant are
// rejected with ErrInvalidRole and nothing is appended.
func (c *ChatClient) AddMessage(role Role, content string) error {
	if !role.Valid() {
		return roleError(string(role))
	}
	c.append(Message{Role: role, Content: content})
	return nil
}

func (c *ChatClient) AddUserMessage(content string) {
	c.append(Message{Role: RoleUser, Content: content})
}

func (c *ChatClient) AddAssistantMessage(content string) {
	c.append(Message{Role: RoleAssistant, Content: content})
}

func (c *ChatClient) AddSystemMessage(content string) {
	c.append(Message{Role: RoleSystem, Content: content})
}

// AddResponse appends the first choice of resp as an assistant message.
// It reports false when resp has no choices.
func (c *ChatClient) AddResponse(resp *ChatCompletionResponse) bool {
	if resp == nil || len(resp.Choices) == 0 {
		return false
	}
	c.AddAssistantMessage(resp.Choices[0].Message.Content)
	return true
}

func (c *ChatClient) append(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

// Messages returns a copy of the conversation in insertion order.
func (c *ChatClient) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *ChatClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Completion requests a completion for the whole conversation.
//
// Defaults: model DefaultChatModel, temperature DefaultTemperature, max tokens
// DefaultMaxTokens. The conversation is not modified; use AddResponse to keep the reply.
//
// An empty conversation fails with ErrInvalidMessageState before any network I/O.
// A non-2xx status yields (nil, nil) unless the Client was built WithStatusErrors.
func (c *ChatClient) Completion(ctx context.Context, opts ...RequestOption) (*ChatCompletionResponse, error) {
	msgs := c.Messages()
	if len(msgs) == 0 {
		return nil, ErrInvalidMessageState
	}

	rc := buildRequestConfig(opts)
	body := chatCompletionRequest{
		Model:       rc.model(DefaultChatModel),
		Messages:    msgs,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if rc.Temperature != nil {
		body.Temperature = *rc.Temperature
	}
	if rc.MaxTokens != nil {
		body.MaxTokens = *rc.MaxTokens
	}

	var out ChatCompletionResponse
	ok, err := c.tr.post(ctx, ChatCompletionsPath, httpx.WithJSON(body), &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}
