//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/hyperjump/resumatch/pkg/utils"
)

// Pooling modes for ONNXConfig.Pooling.
const (
	// PoolingNone expects a model exported with pooling baked in, output shape (1, dims).
	PoolingNone = "none"
	// PoolingMean averages token embeddings of shape (1, maxTokens, dims) under the attention mask.
	PoolingMean = "mean"
)

// ONNXConfig configures NewONNXEmbedder.
type ONNXConfig struct {
	ModelPath  string
	OutputName string
	Pooling    string
	Dimensions int
	MaxTokens  int
	Tokenizer  Tokenizer
}

// ONNXEmbedder uses ONNX Runtime to produce embeddings. It requires CGO and the onnxruntime shared library.
type ONNXEmbedder struct {
	session    *ort.AdvancedSession
	dimensions int
	maxTokens  int
	pooling    string
	tokenizer  Tokenizer
	// Pre-allocated tensors for Run(); we update input data and read output.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXEmbedder creates an ONNX embedder. InitializeEnvironment is called if not already done.
func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	if cfg.Dimensions <= 0 || cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("invalid ONNX config: dimensions=%d max_tokens=%d", cfg.Dimensions, cfg.MaxTokens)
	}
	if cfg.Tokenizer == nil {
		return nil, errors.New("ONNX embedder requires the model's tokenizer")
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultOutputName
	}
	if cfg.Pooling == "" {
		cfg.Pooling = PoolingMean
	}
	if cfg.Pooling != PoolingNone && cfg.Pooling != PoolingMean {
		return nil, fmt.Errorf("unknown pooling %q (supported: none, mean)", cfg.Pooling)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	}

	inputIDs, attentionMask, tokenTypeIDs := cfg.Tokenizer.Tokenize("", cfg.MaxTokens)
	seqShape := ort.NewShape(1, int64(cfg.MaxTokens))

	inputIDsTensor, err := ort.NewTensor(seqShape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(seqShape, attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(seqShape, tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}

	outShape := ort.NewShape(1, int64(cfg.Dimensions))
	if cfg.Pooling == PoolingMean {
		outShape = ort.NewShape(1, int64(cfg.MaxTokens), int64(cfg.Dimensions))
	}
	outputTensor, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXEmbedder{
		session:             session,
		dimensions:          cfg.Dimensions,
		maxTokens:           cfg.MaxTokens,
		pooling:             cfg.Pooling,
		tokenizer:           cfg.Tokenizer,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		outputTensor:        outputTensor,
	}, nil
}

// Embed runs one inference for text and returns the L2-normalized vector.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := e.tokenizer.Tokenize(text, e.maxTokens)

	copy(e.inputIDsTensor.GetData(), inputIDs)
	copy(e.attentionMaskTensor.GetData(), attentionMask)
	copy(e.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	var embedding []float32
	if e.pooling == PoolingMean {
		embedding = meanPool(e.outputTensor.GetData(), attentionMask, e.dimensions)
	} else {
		embedding = make([]float32, e.dimensions)
		copy(embedding, e.outputTensor.GetData()[:e.dimensions])
	}

	utils.NormalizeL2(embedding)
	return embedding, nil
}

// EmbedBatch calls Embed for each text.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session and tensors.
func (e *ONNXEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{e.inputIDsTensor, e.attentionMaskTensor, e.tokenTypeIDsTensor} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if e.outputTensor != nil {
		_ = e.outputTensor.Destroy()
	}
	e.inputIDsTensor, e.attentionMaskTensor, e.tokenTypeIDsTensor, e.outputTensor = nil, nil, nil, nil
	return err
}
