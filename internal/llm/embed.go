package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// maxEmbedBatch is the most texts the Gemini batch endpoint accepts per call.
const maxEmbedBatch = 100

// Embedder turns texts into vectors for similarity ranking.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Embed returns one vector per text, in order. Texts are sent in batches of
// at most maxEmbedBatch.
func (c *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	modelName := c.config.EmbeddingModel
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}
	model := c.client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeRetrievalDocument

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))

		batch := model.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}
		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", end-start, len(resp.Embeddings))
		}
		for _, e := range resp.Embeddings {
			vectors = append(vectors, e.Values)
		}
	}
	return vectors, nil
}
