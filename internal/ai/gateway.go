package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Reply is the gateway's answer. Text is always non-empty. Fallback
// marks replies that came from the static per-language table instead
// of the provider; the textual output is indistinguishable to the
// user, so this flag is what keeps the degradation observable.
type Reply struct {
	Text     string
	Fallback bool
}

// Gateway talks to the provider's OpenAI-compatible chat-completions
// endpoint. User-facing flows never see a provider error: every
// failure path degrades to the per-language fallback answer and is
// logged with the underlying cause.
type Gateway struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewGateway wraps cfg and httpClient into a Gateway. A nil
// httpClient gets a default client bounded by cfg.Timeout; a nil
// logger gets a JSON slog writer on stdout.
func NewGateway(cfg Config, httpClient *http.Client, logger *slog.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Gateway{cfg: cfg, client: httpClient, log: logger}
}

// chatRequest / chatResponse mirror the provider's wire format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string for system, []Part for user
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the prompt and always returns a usable answer. Transport
// failures, non-2xx statuses, malformed bodies and empty completions
// all degrade to the configured fallback string for the prompt's
// language (english for unknown tags); the cause is logged so
// operators can tell fallbacks from real answers.
func (g *Gateway) Ask(ctx context.Context, p Prompt) Reply {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := g.complete(ctx, p)
	if err != nil {
		g.log.Error("ai: completion failed, serving fallback",
			slog.String("language", p.Language),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return Reply{Text: g.cfg.fallback(p.Language), Fallback: true}
	}
	g.log.Info("ai: completion ok",
		slog.String("language", p.Language),
		slog.Duration("elapsed", time.Since(start)))
	return Reply{Text: text}
}

// complete performs one chat-completions call and returns the answer
// text or an error describing exactly which stage failed.
func (g *Gateway) complete(ctx context.Context, p Prompt) (string, error) {
	payload := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: p.Instruction},
			{Role: "user", Content: p.Parts},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the log line, then give up.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, snippet)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no completion in response")
	}
	return out.Choices[0].Message.Content, nil
}
