package analyze

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"gonum.org/v1/gonum/floats"

	"github.com/nirmaan-labs/intro-coach/config"
)

// Embedder turns a batch of texts into one vector per text.
// *clients.Embedder satisfies it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Semantic decides topic presence by embedding transcript sentences and bucket
// phrases and thresholding the best cosine similarity.
type Semantic struct {
	embed     Embedder
	tokenizer *sentences.DefaultSentenceTokenizer
	threshold float64
}

func NewSemantic(embed Embedder, threshold float64) (*Semantic, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("sentence tokenizer: %w", err)
	}
	return &Semantic{embed: embed, tokenizer: tok, threshold: threshold}, nil
}

// Presence reports, per bucket, whether any transcript sentence clears the
// similarity threshold against any of the bucket's phrases. An empty
// transcript reports every bucket absent without calling the embedder.
func (s *Semantic) Presence(ctx context.Context, text string, buckets []config.Bucket) (map[string]bool, error) {
	results := make(map[string]bool, len(buckets))

	sents := s.split(text)
	if len(sents) == 0 {
		for _, b := range buckets {
			results[b.Name] = false
		}
		return results, nil
	}

	sentVecs, err := s.embed.Embed(ctx, sents)
	if err != nil {
		return nil, fmt.Errorf("embed transcript: %w", err)
	}

	for _, b := range buckets {
		phraseVecs, err := s.embed.Embed(ctx, b.Phrases)
		if err != nil {
			return nil, fmt.Errorf("embed bucket %s: %w", b.Name, err)
		}
		best := 0.0
		for _, sv := range sentVecs {
			for _, pv := range phraseVecs {
				if c := cosine(sv, pv); c > best {
					best = c
				}
			}
		}
		results[b.Name] = best > s.threshold
	}
	return results, nil
}

func (s *Semantic) split(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := math.Sqrt(floats.Dot(a, a))
	nb := math.Sqrt(floats.Dot(b, b))
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
