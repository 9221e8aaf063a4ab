package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hh-screener/internal/ai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func stubWait(t *testing.T) *[]time.Duration {
	t.Helper()

	var delays []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &delays
}

func newTestGenerator(chats chatCreator, retries int) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: retries,
		maxTokens:  ai.DefaultMaxTokens,
		logger:     zap.NewNop(),
	}
}

func TestGeneratorSendsSystemInstructionAndTemperature(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", textResponse("  Hello Alex!  "), nil)

	g := newTestGenerator(chats, 1)
	output, err := g.Generate(context.Background(), ai.Request{System: "system", Prompt: "message", Temperature: 0.8})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "Hello Alex!" {
		t.Fatalf("unexpected output: %q", output)
	}

	call := chats.calls[0]
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != "system" {
		t.Fatalf("expected system instruction to be set")
	}
	if call.config.Temperature == nil || *call.config.Temperature != 0.8 {
		t.Fatalf("unexpected temperature: %v", call.config.Temperature)
	}
	if call.config.MaxOutputTokens != ai.DefaultMaxTokens {
		t.Fatalf("unexpected max tokens: %d", call.config.MaxOutputTokens)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", textResponse("retry ok"), nil)

	g := newTestGenerator(chats, 2)
	output, err := g.Generate(context.Background(), ai.Request{System: "system", Prompt: "message"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
	if len(*delays) != 1 || (*delays)[0] != baseBackoff {
		t.Fatalf("unexpected backoff delays: %v", *delays)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)

	g := newTestGenerator(chats, 3)
	_, err := g.Generate(context.Background(), ai.Request{System: "sys", Prompt: "msg"})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if len(chats.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(chats.calls))
	}
	if len(*delays) != 2 || (*delays)[1] != 2*baseBackoff {
		t.Fatalf("expected exponential backoff, got %v", *delays)
	}
}

func TestGeneratorRetriesShortQuotaDelay(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, please retry in 2.5s",
	})
	chats.enqueue("gemini-pro", textResponse("ok"), nil)

	g := newTestGenerator(chats, 3)
	if _, err := g.Generate(context.Background(), ai.Request{Prompt: "msg"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(*delays) != 1 || (*delays)[0] != 2500*time.Millisecond {
		t.Fatalf("expected quota delay to be honoured, got %v", *delays)
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	stubWait(t)

	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats.enqueue("gemini-pro", nil, quotaErr)

	g := newTestGenerator(chats, 3)
	_, err := g.Generate(context.Background(), ai.Request{System: "sys", Prompt: "msg"})
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	stubWait(t)

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(chats, 3)
	if _, err := g.Generate(context.Background(), ai.Request{Prompt: "msg"}); err == nil {
		t.Fatal("expected error")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	original := wait
	wait = func(ctx context.Context, _ time.Duration) error { return context.Canceled }
	t.Cleanup(func() { wait = original })

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{Code: http.StatusInternalServerError})
	chats.enqueue("gemini-pro", textResponse("never"), nil)

	g := newTestGenerator(chats, 3)
	_, err := g.Generate(context.Background(), ai.Request{Prompt: "msg"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorRejectsEmptyResponses(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", textResponse("   "), nil)

	g := newTestGenerator(chats, 1)
	if _, err := g.Generate(context.Background(), ai.Request{Prompt: "msg"}); err == nil {
		t.Fatal("expected error for empty response")
	}
	if _, err := g.Generate(context.Background(), ai.Request{Prompt: "  "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestParseRetryDelay(t *testing.T) {
	tests := []struct {
		message string
		expect  time.Duration
		ok      bool
	}{
		{"retry after 60 seconds", time.Minute, true},
		{"Please retry in 12.5s.", 12500 * time.Millisecond, true},
		{"retry in 200ms", 200 * time.Millisecond, true},
		{"quota exceeded", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseRetryDelay(tt.message)
		if ok != tt.ok || got != tt.expect {
			t.Fatalf("%q: expected %v/%v, got %v/%v", tt.message, tt.expect, tt.ok, got, ok)
		}
	}
}
