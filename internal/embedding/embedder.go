// Package embedding provides sentence embeddings via ONNX Runtime, a hashing fallback, and caching.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Embedder produces vector embeddings for text. Implementations are safe for
// concurrent use; one instance is loaded at startup and shared for the process lifetime.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Backend names accepted by Options.Backend.
const (
	BackendONNX = "onnx"
	BackendHash = "hash"
)

// DefaultOutputName is the token embedding output of a standard
// sentence-transformers ONNX export, pooled with PoolingMean.
const DefaultOutputName = "last_hidden_state"

// Options configures New.
type Options struct {
	Backend    string
	ModelPath  string
	VocabPath  string
	OutputName string
	Pooling    string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// New returns the embedder selected by opts, wrapped in an LRU of
// opts.CacheSize vectors. When the ONNX backend cannot be loaded (no CGO,
// missing runtime, model or vocabulary) it logs a warning and falls back to
// the hashing embedder; a model is never fed IDs from another vocabulary.
func New(opts Options, logger *zap.Logger) (Embedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e, err := newBackend(opts, logger)
	if err != nil {
		return nil, err
	}
	return NewCachedEmbedder(e, opts.CacheSize), nil
}

func newBackend(opts Options, logger *zap.Logger) (Embedder, error) {
	switch opts.Backend {
	case BackendHash:
		return NewHashEmbedder(opts.Dimensions), nil
	case BackendONNX, "":
		tok, err := loadTokenizer(opts.VocabPath)
		if err != nil {
			logger.Warn("model vocabulary unavailable, falling back to hashing embedder",
				zap.String("vocab_path", opts.VocabPath), zap.Error(err))
			return NewHashEmbedder(opts.Dimensions), nil
		}
		emb, err := NewONNXEmbedder(ONNXConfig{
			ModelPath:  opts.ModelPath,
			OutputName: opts.OutputName,
			Pooling:    opts.Pooling,
			Dimensions: opts.Dimensions,
			MaxTokens:  opts.MaxTokens,
			Tokenizer:  tok,
		})
		if err != nil {
			logger.Warn("ONNX embedder unavailable, falling back to hashing embedder",
				zap.String("model_path", opts.ModelPath), zap.Error(err))
			return NewHashEmbedder(opts.Dimensions), nil
		}
		logger.Info("ONNX embedder loaded",
			zap.String("model_path", opts.ModelPath),
			zap.Int("dimensions", opts.Dimensions),
			zap.String("pooling", opts.Pooling))
		return emb, nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q (supported: onnx, hash)", opts.Backend)
	}
}

// loadTokenizer loads the WordPiece vocabulary the model was trained with.
func loadTokenizer(vocabPath string) (Tokenizer, error) {
	if vocabPath == "" {
		return nil, errors.New("no vocab_path configured")
	}
	tok, err := LoadWordPieceTokenizer(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("load vocab: %w", err)
	}
	return tok, nil
}
