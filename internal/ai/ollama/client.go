package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/utils"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "neural-chat"
	DefaultTimeout = 60 * time.Second

	generatePath = "/api/generate"
	maxLogLength = 200
)

// Client talks to a local Ollama server.
type Client struct {
	http      *resty.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// New returns a client for the server at baseURL. Each request is bounded by timeout.
func New(baseURL, model string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		model:     model,
		maxTokens: ai.DefaultMaxTokens,
		logger:    logger.WithCommonFields(log, ai.ProviderOllama, model),
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate calls /api/generate without streaming and returns the response text.
func (c *Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	body := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": req.Temperature,
			"num_predict": c.maxTokens,
		},
	}
	if system := strings.TrimSpace(req.System); system != "" {
		body["system"] = system
	}

	c.logger.Debug("ollama request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, maxLogLength)),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(generatePath)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}

	payload := resp.String()
	if resp.IsError() {
		msg := gjson.Get(payload, "error").String()
		if msg == "" {
			msg = utils.TruncateForLog(payload, maxLogLength)
		}
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode(), msg)
	}

	text := strings.TrimSpace(gjson.Get(payload, "response").String())
	if text == "" {
		return "", errors.New("ollama returned empty response")
	}

	c.logger.Debug("ollama response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, maxLogLength)),
	)
	return text, nil
}
