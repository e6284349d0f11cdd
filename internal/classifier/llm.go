package classifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JaimeStill/taxon/internal/prompts"
	"github.com/JaimeStill/taxon/pkg/formatting"
)

// LLM classifies batches with a chat model. The prompt is composed from the
// prompts system so instruction overrides apply on the next batch.
type LLM struct {
	model   llms.Model
	prompts prompts.System
	opts    []llms.CallOption
}

// NewLLM wraps an existing model.
func NewLLM(model llms.Model, ps prompts.System, cfg Config) *LLM {
	return &LLM{
		model:   model,
		prompts: ps,
		opts: []llms.CallOption{
			llms.WithMaxTokens(cfg.MaxTokens),
			llms.WithTemperature(*cfg.Temperature),
			llms.WithTopP(*cfg.TopP),
			llms.WithJSONMode(),
		},
	}
}

// NewOpenAI connects to an OpenAI-compatible chat endpoint.
func NewOpenAI(cfg Config, ps prompts.System, client *http.Client) (*LLM, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.Token),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	}
	if client != nil {
		opts = append(opts, openai.WithHTTPClient(client))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return NewLLM(model, ps, cfg), nil
}

func (c *LLM) Classify(ctx context.Context, reqs []Request) ([]Verdict, error) {
	prompt, err := prompts.Compose(ctx, c.prompts, prompts.StageClassify, reqs)
	if err != nil {
		return nil, fmt.Errorf("compose prompt: %w", err)
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	parsed, err := formatting.Parse[httpResponse](out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return parsed.Verdicts, nil
}
