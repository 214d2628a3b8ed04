package analyze

import "github.com/jonreiter/govader"

// Sentiment wraps the VADER lexicon analyzer. Construction is cheap but the
// handle is meant to be built once and shared; it is safe for concurrent reads.
type Sentiment struct {
	v *govader.SentimentIntensityAnalyzer
}

func NewSentiment() *Sentiment {
	return &Sentiment{v: govader.NewSentimentIntensityAnalyzer()}
}

// Positivity maps the document-level compound score from [-1,1] to [0,1].
func (s *Sentiment) Positivity(text string) float64 {
	compound := s.v.PolarityScores(text).Compound
	return (compound + 1) / 2
}
