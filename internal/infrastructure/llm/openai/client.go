// Package openai adapts an OpenAI-compatible chat API to the structured
// model port. Structured calls use JSON mode plus a best-effort JSON
// substring recovery for models that wrap the object in prose.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/resilience"
)

const (
	maxCompletionTokens = 4096

	structuredSystemPrompt = "You are an expert document processing agent for financial and identity documents. " +
		"Respond with a single JSON object matching the requested shape exactly. No prose, no markdown fences."
)

type Client struct {
	api      *openai.Client
	model    string
	limiter  *rate.Limiter
	executor *resilience.Executor
}

type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerMinute int
}

func New(cfg Config, executor *resilience.Executor) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	return &Client{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    cfg.Model,
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm/6+1),
		executor: executor,
	}
}

func (c *Client) Model() string { return c.model }

// GenerateStructured runs a JSON-mode completion and unmarshals the response
// into out. Unparseable output is a domain.ErrModelResponse.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, out any) error {
	raw, err := c.complete(ctx, "llm.structured", prompt, structuredSystemPrompt, true)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		recovered := extractJSONObject(raw)
		if recoverErr := json.Unmarshal([]byte(recovered), out); recoverErr != nil {
			return domain.WrapError(domain.ErrModelResponse, "parse structured response",
				fmt.Errorf("%w (raw length %d)", err, len(raw)))
		}
	}
	return nil
}

func (c *Client) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return c.complete(ctx, "llm.text", prompt, systemPrompt, false)
}

func (c *Client) complete(ctx context.Context, operation, prompt, systemPrompt string, jsonMode bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	call := func(callCtx context.Context) error {
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return domain.WrapError(domain.ErrModelResponse, operation, fmt.Errorf("no choices returned"))
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyModelError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return content, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
