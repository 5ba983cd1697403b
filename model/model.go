package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage, UserMessage and AssistantMessage are shorthands for building histories.
func SystemMessage(text string) Message { return Message{Role: RoleSystem, Content: text} }

// UserMessage builds a user-authored message.
func UserMessage(text string) Message { return Message{Role: RoleUser, Content: text} }

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// Request captures the normalized model input.
type Request struct {
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. The final chunk
// carries the complete text.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required by agents to drive generation.
//
// Generate returns a response channel and an error channel. Implementations
// send zero or more partial chunks followed by exactly one final chunk, or a
// single error, and then close both channels.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrNoResponse is returned by Complete when a model closes its channels
// without emitting a final response.
var ErrNoResponse = errors.New("model returned no response")

// Complete runs a non-streaming generation over messages and returns the
// final text. Errors from the provider are returned unchanged.
func Complete(ctx context.Context, m Model, messages []Message) (string, error) {
	respCh, errCh := m.Generate(ctx, Request{Messages: messages})

	var (
		final string
		found bool
	)
	for resp := range respCh {
		if !resp.Partial {
			final = resp.Text
			found = true
		}
	}

	if err := <-errCh; err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoResponse
	}

	return final, nil
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
//
// Responses are resolved in this order: a queued response (FIFO), a canned
// response keyed by the last message text, then an echo of the input. Every
// request is recorded for later inspection.
type MockModel struct {
	info Info

	mu        sync.Mutex
	responses map[string]string
	queue     []mockReply
	requests  []Request
}

type mockReply struct {
	text string
	err  error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends completions returned by subsequent calls, one per call.
func (m *MockModel) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range responses {
		m.queue = append(m.queue, mockReply{text: r})
	}
}

// EnqueueError makes the next unanswered call fail with err.
func (m *MockModel) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockReply{err: err})
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Generate invocations.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockModel) next(req Request) mockReply {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := make([]Message, len(req.Messages))
	copy(msgs, req.Messages)
	m.requests = append(m.requests, Request{Messages: msgs, Stream: req.Stream})

	if len(m.queue) > 0 {
		r := m.queue[0]
		m.queue = m.queue[1:]
		return r
	}

	last := req.Messages[len(req.Messages)-1].Content
	if r, ok := m.responses[last]; ok {
		return mockReply{text: r}
	}

	return mockReply{text: fmt.Sprintf("Mock response to: %s", last)}
}

// Generate implements Model; emits optional streaming word chunks then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}

		reply := m.next(req)
		if reply.err != nil {
			errCh <- reply.err
			return
		}

		if req.Stream {
			for _, w := range strings.SplitAfter(reply.text, " ") {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: w}:
				}
			}
		}

		respCh <- Response{Text: reply.text, FinishReason: "stop"}
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
