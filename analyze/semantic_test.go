package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nirmaan-labs/intro-coach/config"
)

// keywordEmbedder maps texts onto orthogonal axes by keyword so cosine
// similarity is 1 for same-topic pairs and 0 otherwise.
type keywordEmbedder struct {
	calls int
	fail  bool
}

func (f *keywordEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if f.fail {
		return nil, errors.New("embedder should not have been called")
	}
	f.calls++
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		lower := strings.ToLower(t)
		switch {
		case strings.Contains(lower, "family"):
			out = append(out, []float64{1, 0, 0, 0})
		case strings.Contains(lower, "cricket"):
			out = append(out, []float64{0, 1, 0, 0})
		case strings.Contains(lower, "office"):
			out = append(out, []float64{0, 0, 1, 0})
		default:
			out = append(out, []float64{0, 0, 0, 1})
		}
	}
	return out, nil
}

func TestSemanticPresence(t *testing.T) {
	emb := &keywordEmbedder{}
	sem, err := NewSemantic(emb, 0.45)
	if err != nil {
		t.Fatalf("new semantic: %v", err)
	}

	buckets := []config.Bucket{
		{Name: "Family", Phrases: []string{"my family"}},
		{Name: "Hobbies", Phrases: []string{"cricket"}},
		{Name: "Work", Phrases: []string{"office"}},
	}
	got, err := sem.Presence(context.Background(), "I love my family. I play cricket every week.", buckets)
	if err != nil {
		t.Fatalf("presence: %v", err)
	}
	if !got["Family"] || !got["Hobbies"] {
		t.Fatalf("expected Family and Hobbies present, got %v", got)
	}
	if got["Work"] {
		t.Fatalf("Work should be absent, got %v", got)
	}
}

func TestSemanticPresenceEmptyTranscript(t *testing.T) {
	emb := &keywordEmbedder{fail: true}
	sem, err := NewSemantic(emb, 0.45)
	if err != nil {
		t.Fatalf("new semantic: %v", err)
	}

	got, err := sem.Presence(context.Background(), "   ", []config.Bucket{{Name: "Family", Phrases: []string{"family"}}})
	if err != nil {
		t.Fatalf("presence: %v", err)
	}
	if got["Family"] {
		t.Fatalf("empty transcript must report every bucket absent")
	}
}

func TestSemanticPresenceBatchesSentencesOnce(t *testing.T) {
	emb := &keywordEmbedder{}
	sem, err := NewSemantic(emb, 0.45)
	if err != nil {
		t.Fatalf("new semantic: %v", err)
	}

	buckets := []config.Bucket{
		{Name: "A", Phrases: []string{"family"}},
		{Name: "B", Phrases: []string{"cricket"}},
	}
	if _, err := sem.Presence(context.Background(), "One sentence. Another sentence.", buckets); err != nil {
		t.Fatalf("presence: %v", err)
	}
	// one call for the sentence batch plus one per bucket
	if emb.calls != 3 {
		t.Fatalf("embedder called %d times, want 3", emb.calls)
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1}, []float64{1, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosine(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPositivityRange(t *testing.T) {
	s := NewSentiment()
	pos := s.Positivity("I am so happy and excited, this is wonderful!")
	neg := s.Positivity("This is terrible, awful and sad.")
	for _, v := range []float64{pos, neg} {
		if v < 0 || v > 1 {
			t.Fatalf("positivity %v outside [0,1]", v)
		}
	}
	if pos <= neg {
		t.Fatalf("positive text scored %v, not above negative %v", pos, neg)
	}
}
