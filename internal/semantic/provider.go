// Package semantic turns text into embedding vectors and compares them.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrUnavailable means an embedding could not be obtained. It is distinct from
// a similarity of zero.
var ErrUnavailable = errors.New("embedding unavailable")

// Provider produces an embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProviderConfig selects and tunes the remote embedding provider.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	RatePerSec float64
	Burst      int
}

// NewProvider returns an OpenAI-compatible provider, or a disabled one when no
// credential is configured.
func NewProvider(cfg ProviderConfig) Provider {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return DisabledProvider{}
	}
	return NewOpenAIProvider(cfg)
}

// DisabledProvider is used when no credential is configured.
type DisabledProvider struct{}

func (DisabledProvider) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("%w: no embedding credential configured", ErrUnavailable)
}

// IsDisabled reports whether p can never produce an embedding.
func IsDisabled(p Provider) bool {
	_, ok := p.(DisabledProvider)
	return ok
}

type embeddingsClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIProvider calls an OpenAI-compatible embeddings endpoint.
type OpenAIProvider struct {
	client  embeddingsClient
	model   openai.EmbeddingModel
	limiter *rate.Limiter
}

func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   openai.EmbeddingModel(model),
		limiter: newLimiter(cfg.RatePerSec, cfg.Burst),
	}
}

func newLimiter(perSec float64, burst int) *rate.Limiter {
	if perSec <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSec), burst)
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %v", ErrUnavailable, err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	return resp.Data[0].Embedding, nil
}
