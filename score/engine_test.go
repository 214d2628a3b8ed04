package score

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nirmaan-labs/intro-coach/analyze"
	"github.com/nirmaan-labs/intro-coach/config"
	"github.com/nirmaan-labs/intro-coach/transcribe"
)

func testLog() *logrus.Entry {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg.WithField("component", "test")
}

// topicEmbedder produces multi-hot vectors over fixed topic axes so semantic
// presence is deterministic in tests.
type topicEmbedder struct{}

var topicWords = [][]string{
	{"name", "class", "student", "years old"},
	{"family", "parents", "mother", "father"},
	{"hobby", "playing", "reading", "enjoy"},
	{"ambition", "goal", "dream", "fun fact", "unique", "strength", "achievement"},
}

func (topicEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		lower := strings.ToLower(t)
		vec := make([]float64, len(topicWords)+1)
		hit := false
		for axis, words := range topicWords {
			for _, w := range words {
				if strings.Contains(lower, w) || lower == "from" && axis == 3 {
					vec[axis] = 1
					hit = true
					break
				}
			}
		}
		if !hit {
			vec[len(topicWords)] = 1
		}
		out = append(out, vec)
	}
	return out, nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	rubric := config.DefaultRubric()
	sem, err := analyze.NewSemantic(topicEmbedder{}, rubric.SemanticThreshold)
	if err != nil {
		t.Fatalf("semantic: %v", err)
	}
	grammar := analyze.NewGrammar(nil, testLog())
	return NewEngine(rubric, grammar, sem, analyze.NewSentiment(), testLog())
}

func input(text string, segs []transcribe.Segment, wpm int, duration float64) *transcribe.Result {
	return &transcribe.Result{
		Text:      text,
		Segments:  segs,
		Duration:  duration,
		WPM:       wpm,
		WordCount: len(strings.Fields(text)),
	}
}

func overallIdentity(t *testing.T, r *Report, maxSum int) {
	t.Helper()
	want := int(math.Round(math.Min(float64(r.Breakdown.Sum())/float64(maxSum)*100, 100)))
	if r.OverallScore != want {
		t.Fatalf("overall %d, breakdown sum %d implies %d", r.OverallScore, r.Breakdown.Sum(), want)
	}
	if r.OverallScore < 0 || r.OverallScore > 100 {
		t.Fatalf("overall %d outside [0,100]", r.OverallScore)
	}
}

func TestScoreEmptyTranscript(t *testing.T) {
	e := newTestEngine(t)
	r, err := e.Score(context.Background(), input("", nil, 0, 0))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if r.OverallScore != 0 {
		t.Fatalf("overall %d, want 0", r.OverallScore)
	}
	if r.Breakdown.Sum() != 0 {
		t.Fatalf("breakdown not all zero: %+v", r.Breakdown)
	}
	if len(r.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(r.Events))
	}
}

func TestScoreIntroScenario(t *testing.T) {
	text := "Good morning everyone myself Raj I am studying in class ten um my family is nice"
	segs := []transcribe.Segment{{Start: 0, End: 10, Text: text}}
	e := newTestEngine(t)

	r, err := e.Score(context.Background(), input(text, segs, 130, 10))
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if r.Breakdown.Flow != 10 {
		t.Fatalf("flow %d, want 10 for wpm in ideal band", r.Breakdown.Flow)
	}
	// salutation 5 + structure bonus 5 + Identity and Family matched (13.33)
	if r.Breakdown.ContentStructure != 23 {
		t.Fatalf("content %d, want 23", r.Breakdown.ContentStructure)
	}

	var sawMyself, sawFillerAtStart, sawMissingHobbies bool
	for _, ev := range r.Events {
		switch ev.Type {
		case EventGrammar:
			if strings.Contains(ev.Message, "Myself") {
				sawMyself = true
			}
		case EventClarity:
			if ev.Time == 0 && strings.Contains(ev.Message, "'um'") {
				sawFillerAtStart = true
			}
		case EventContent:
			if strings.Contains(ev.Message, "Hobbies") {
				sawMissingHobbies = true
			}
		}
	}
	if !sawMyself {
		t.Fatalf("expected a grammar event for the Myself opener, events: %+v", r.Events)
	}
	if !sawFillerAtStart {
		t.Fatalf("expected a clarity event at the segment start, events: %+v", r.Events)
	}
	if !sawMissingHobbies {
		t.Fatalf("expected a missing content event for Hobbies, events: %+v", r.Events)
	}

	for i := 1; i < len(r.Events); i++ {
		if r.Events[i].Time < r.Events[i-1].Time {
			t.Fatalf("events not sorted by time: %+v", r.Events)
		}
	}

	overallIdentity(t, r, e.rubric.Maxima.Sum())
}

func TestScoreTextOnlyNoTimeAnchoredEvents(t *testing.T) {
	text := "Good morning everyone myself Raj I am studying in class ten um my family is nice"
	e := newTestEngine(t)

	r, err := e.Score(context.Background(), transcribe.FromText(text))
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	for _, ev := range r.Events {
		if ev.Type == EventGrammar || ev.Type == EventClarity {
			t.Fatalf("text-only submission produced time-anchored %s event: %+v", ev.Type, ev)
		}
	}
	// grammar findings are still computed from the whole text
	if r.Breakdown.Grammar != 10 {
		t.Fatalf("grammar %d, want 10 for 1 error in 16 words", r.Breakdown.Grammar)
	}
	if len(r.Details.Errors) == 0 {
		t.Fatalf("expected grammar findings in details")
	}
}

func TestScoreGrammarBandsMonotonic(t *testing.T) {
	e := newTestEngine(t)

	mkText := func(fillerWords, errs int) string {
		parts := make([]string, 0, fillerWords+errs)
		for i := 0; i < fillerWords; i++ {
			parts = append(parts, "steady")
		}
		for i := 0; i < errs; i++ {
			parts = append(parts, "They is")
		}
		return strings.Join(parts, " ")
	}

	cases := []struct {
		name string
		text string
		want int
	}{
		{"under two per hundred", mkText(58, 1), 20}, // 1 err / 60 words
		{"under five per hundred", mkText(56, 2), 15},
		{"five and over", mkText(52, 4), 10},
	}
	prev := 21
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := e.Score(context.Background(), input(tc.text, nil, 130, 30))
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if r.Breakdown.Grammar != tc.want {
				t.Fatalf("grammar %d, want %d", r.Breakdown.Grammar, tc.want)
			}
			if r.Breakdown.Grammar > prev {
				t.Fatalf("grammar score increased across bands")
			}
			prev = r.Breakdown.Grammar
		})
	}
}

func TestScorePerfectSubmission(t *testing.T) {
	text := "Good morning everyone, I am excited to be here. My name is Asha and I am a student in class ten. " +
		"I love my wonderful family, my parents are amazing and supportive. " +
		"My hobbies are reading and playing, and I truly enjoy them. " +
		"My dream and ambition is to achieve great success, and I am happy, proud, and confident."
	segs := []transcribe.Segment{{Start: 0, End: 30, Text: text}}
	e := newTestEngine(t)

	r, err := e.Score(context.Background(), input(text, segs, 130, 30))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if r.OverallScore != 100 {
		t.Fatalf("overall %d, want 100; breakdown %+v feedback %v", r.OverallScore, r.Breakdown, r.Feedback)
	}
	for _, ev := range r.Events {
		if ev.Type == EventContent || ev.Type == EventFlow || ev.Type == EventConfidence {
			t.Fatalf("perfect submission emitted %s event: %+v", ev.Type, ev)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	text := "Good morning everyone myself Raj I am studying in class ten um my family is nice"
	segs := []transcribe.Segment{{Start: 0, End: 10, Text: text}}
	e := newTestEngine(t)

	a, err := e.Score(context.Background(), input(text, segs, 130, 10))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	b, err := e.Score(context.Background(), input(text, segs, 130, 10))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if a.OverallScore != b.OverallScore || a.Breakdown != b.Breakdown {
		t.Fatalf("scoring is not deterministic: %+v vs %+v", a.Breakdown, b.Breakdown)
	}
	if len(a.Events) != len(b.Events) {
		t.Fatalf("event count differs between runs: %d vs %d", len(a.Events), len(b.Events))
	}
	for i := range a.Events {
		if a.Events[i] != b.Events[i] {
			t.Fatalf("event %d differs: %+v vs %+v", i, a.Events[i], b.Events[i])
		}
	}
}

func TestScorePaceAndToneEventsNearEnd(t *testing.T) {
	// flat and fast: wpm 170 is outside every band, text carries no positive tone
	text := "steady steady steady steady steady steady steady steady steady steady"
	segs := []transcribe.Segment{{Start: 0, End: 20, Text: text}}
	e := newTestEngine(t)

	r, err := e.Score(context.Background(), input(text, segs, 170, 20))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if r.Breakdown.Flow != 2 {
		t.Fatalf("flow %d, want 2 outside all bands", r.Breakdown.Flow)
	}

	var pace, tone bool
	for _, ev := range r.Events {
		if ev.Type == EventFlow {
			pace = true
			if ev.Time != 19 {
				t.Fatalf("pace event at %v, want duration-1", ev.Time)
			}
			if !strings.Contains(ev.Message, "too fast") {
				t.Fatalf("pace message %q should flag fast speech", ev.Message)
			}
		}
		if ev.Type == EventConfidence {
			tone = true
			if ev.Time != 19.5 {
				t.Fatalf("tone event at %v, want duration-0.5", ev.Time)
			}
		}
	}
	if !pace || !tone {
		t.Fatalf("expected pace and tone events, got %+v", r.Events)
	}
}
