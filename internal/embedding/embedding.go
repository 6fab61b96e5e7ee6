// Package embedding is the boundary to the embedding model. Indexing
// and query vectors come from the same provider so distances stay
// comparable between the two paths.
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider turns text into fixed-dimension vectors. Both methods embed
// into the same L2-normalized vector space.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// LangchainProvider adapts a langchaingo embedder to the Provider
// interface, normalizing every vector it returns.
type LangchainProvider struct {
	impl *embeddings.EmbedderImpl
}

// NewOpenAI builds a provider over an OpenAI-compatible embeddings
// endpoint (OpenAI, OpenRouter, LM Studio and similar).
func NewOpenAI(baseURL, apiKey, model string) (*LangchainProvider, error) {
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &LangchainProvider{impl: impl}, nil
}

// NewOllama builds a provider over a local Ollama server.
func NewOllama(serverURL, model string) (*LangchainProvider, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &LangchainProvider{impl: impl}, nil
}

func (p *LangchainProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := p.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	for _, v := range vecs {
		normalize(v)
	}
	return vecs, nil
}

func (p *LangchainProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	normalize(vec)
	return vec, nil
}

// normalize scales v to unit length in place. Zero vectors are left
// untouched.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
