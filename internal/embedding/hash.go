package embedding

import (
	"context"
	"hash/fnv"

	"github.com/hyperjump/resumatch/pkg/utils"
)

// HashEmbedder is a deterministic bag-of-words embedder using signed feature
// hashing. Texts sharing words get a high cosine similarity; texts with disjoint
// vocabularies land near zero. It needs no model files, which makes it the
// fallback for builds without ONNX Runtime and the embedder used in tests.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a hashing embedder of the given dimensions (default 384).
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns the L2-normalized hashed term-frequency vector of text.
// Text without any words yields the zero vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emb := make([]float32, e.dimensions)
	for _, word := range SplitWords(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(word))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimensions))
		if sum>>63 == 1 {
			emb[idx]--
		} else {
			emb[idx]++
		}
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
