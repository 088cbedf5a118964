// Package match scores a résumé against a job description and runs the
// advice and generation actions of a session.
package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/resumatch/internal/embedding"
	"github.com/hyperjump/resumatch/internal/vector"
	"github.com/hyperjump/resumatch/pkg/utils"
)

// ErrEmptyText is returned when either text is blank; no score is defined.
var ErrEmptyText = errors.New("cannot score empty text")

// Scorer turns embedding similarity into a percentage.
type Scorer struct {
	embedder embedding.Embedder
	chunks   chunker
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithChunking embeds each text as overlapping windows of words and averages
// the window vectors, so text past the model's token limit still counts.
// A size of zero or less keeps whole-text embedding.
func WithChunking(words, overlap int) ScorerOption {
	return func(s *Scorer) {
		s.chunks = chunker{size: words, overlap: overlap}
	}
}

// NewScorer creates a scorer over a shared embedder.
func NewScorer(e embedding.Embedder, opts ...ScorerOption) *Scorer {
	s := &Scorer{embedder: e}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score embeds both texts and maps their cosine similarity from [-1, 1] onto
// [0, 100], rounded to two decimals.
func (s *Scorer) Score(ctx context.Context, resume, job string) (float64, error) {
	if utils.IsBlank(resume) || utils.IsBlank(job) {
		return 0, ErrEmptyText
	}
	if s.chunks.size > 0 {
		a, err := s.embedChunked(ctx, resume)
		if err != nil {
			return 0, err
		}
		b, err := s.embedChunked(ctx, job)
		if err != nil {
			return 0, err
		}
		return Percent(vector.Cosine(a, b)), nil
	}
	embs, err := s.embedder.EmbedBatch(ctx, []string{resume, job})
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	cos := vector.Cosine(embs[0], embs[1])
	return Percent(cos), nil
}

// embedChunked returns the mean of the window embeddings of text.
func (s *Scorer) embedChunked(ctx context.Context, text string) ([]float32, error) {
	embs, err := s.embedder.EmbedBatch(ctx, s.chunks.split(text))
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	mean := make([]float32, s.embedder.Dimensions())
	for _, e := range embs {
		for i := range mean {
			if i < len(e) {
				mean[i] += e[i]
			}
		}
	}
	n := float32(len(embs))
	for i := range mean {
		mean[i] /= n
	}
	return mean, nil
}

// Percent rescales a cosine similarity to a two-decimal percentage in [0, 100].
func Percent(cos float64) float64 {
	return utils.Round2(utils.Clamp((cos+1)/2*100, 0, 100))
}
