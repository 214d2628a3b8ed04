package score

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nirmaan-labs/intro-coach/analyze"
	"github.com/nirmaan-labs/intro-coach/config"
	"github.com/nirmaan-labs/intro-coach/transcribe"
)

// Engine fuses the signal analyzers into a rubric score. Handles are built
// once at process start and injected; the engine keeps no state between calls.
type Engine struct {
	rubric    config.Rubric
	grammar   *analyze.Grammar
	semantic  *analyze.Semantic
	sentiment *analyze.Sentiment
	log       *logrus.Entry
}

func NewEngine(rubric config.Rubric, grammar *analyze.Grammar, semantic *analyze.Semantic,
	sentiment *analyze.Sentiment, log *logrus.Entry) *Engine {
	return &Engine{
		rubric:    rubric,
		grammar:   grammar,
		semantic:  semantic,
		sentiment: sentiment,
		log:       log,
	}
}

// Score runs every analyzer over the submission and returns the report.
// Analyzer failures abort the call; a failed submission is distinct from one
// that scored zero.
func (e *Engine) Score(ctx context.Context, in *transcribe.Result) (*Report, error) {
	if in.WordCount == 0 {
		return emptyReport(in.Text), nil
	}

	r := e.rubric
	var bd Breakdown
	feedback := map[string]string{}
	var events []Event

	mapper := NewSegmentMapper(in.Segments)
	if len(in.Segments) > 0 && !mapper.Matches(in.Text) {
		e.log.Warn("segment concatenation does not match transcript, event timestamps may drift")
	}

	// content & structure
	salutation := e.salutationPoints(in.Text)

	presence, err := e.semantic.Presence(ctx, in.Text, r.Mandatory)
	if err != nil {
		return nil, fmt.Errorf("semantic presence: %w", err)
	}
	found := 0
	for _, b := range r.Mandatory {
		if presence[b.Name] {
			found++
		}
	}
	mandatory := float64(found) / float64(len(r.Mandatory)) * float64(r.MandatoryWeight)

	optPresence, err := e.semantic.Presence(ctx, in.Text, []config.Bucket{r.Optional})
	if err != nil {
		return nil, fmt.Errorf("semantic presence: %w", err)
	}
	optional := 0
	if optPresence[r.Optional.Name] {
		optional = r.OptionalWeight
	}

	structure := 0
	if salutation > 0 && found >= 2 {
		structure = r.StructureBonus
	}
	bd.ContentStructure = int(math.Round(float64(salutation+optional+structure) + mandatory))

	// flow / pace
	switch {
	case r.SpeechRate.Ideal.Contains(in.WPM):
		bd.Flow = 10
	case r.SpeechRate.Fast.Contains(in.WPM) || r.SpeechRate.Slow.Contains(in.WPM):
		bd.Flow = 6
	default:
		bd.Flow = 2
	}
	feedback["flow"] = fmt.Sprintf("Pace: %d WPM", in.WPM)

	// grammar
	findings, err := e.grammar.Analyze(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	errsPer100 := float64(len(findings)) / float64(in.WordCount) * 100
	switch {
	case errsPer100 < r.Grammar.FullBelow:
		bd.Grammar = 20
	case errsPer100 < r.Grammar.PartialBelow:
		bd.Grammar = 15
	default:
		bd.Grammar = 10
	}
	feedback["grammar"] = fmt.Sprintf("%d issues found", len(findings))

	// clarity, scanned per segment so each hit carries a timestamp
	segTexts := make([]string, len(in.Segments))
	for i, s := range in.Segments {
		segTexts[i] = s.Text
	}
	fillerCount, occs := analyze.FillersPerSegment(segTexts, r.FillerWords, r.FillerPhrases)
	fillerRate := float64(fillerCount) / float64(in.WordCount) * 100
	switch {
	case fillerRate < r.Clarity.FullBelow:
		bd.Clarity = 15
	case fillerRate < r.Clarity.GoodBelow:
		bd.Clarity = 12
	case fillerRate < r.Clarity.FairBelow:
		bd.Clarity = 9
	default:
		bd.Clarity = 3
	}
	feedback["clarity"] = fmt.Sprintf("Filler Rate: %.1f%%", fillerRate)

	// confidence
	positivity := e.sentiment.Positivity(in.Text)
	switch {
	case positivity > r.Confidence.FullAbove:
		bd.Confidence = 15
	case positivity > r.Confidence.GoodAbove:
		bd.Confidence = 12
	case positivity > r.Confidence.FairAbove:
		bd.Confidence = 9
	default:
		bd.Confidence = 6
	}
	feedback["confidence"] = fmt.Sprintf("Sentiment Score: %.2f", positivity)

	// time-anchored events: structural gaps surface near t=0, delivery issues
	// near the end
	for _, f := range findings {
		t, segText, ok := mapper.Locate(f.Offset)
		if !ok {
			continue
		}
		events = append(events, Event{
			Time: t, Type: EventGrammar, Label: "🔴 Grammar",
			Message: f.Message, SegmentText: segText,
		})
	}

	for _, occ := range occs {
		seg := in.Segments[occ.SegmentIndex]
		msg := fmt.Sprintf("Filler detected: '%s'", occ.Form)
		if strings.Contains(occ.Form, " ") {
			msg = fmt.Sprintf("Filler phrase: '%s'", occ.Form)
		}
		events = append(events, Event{
			Time: seg.Start, Type: EventClarity, Label: "⚠️ Clarity",
			Message: msg, SegmentText: seg.Text,
		})
	}

	if found < len(r.Mandatory) {
		for _, b := range r.Mandatory {
			if presence[b.Name] {
				continue
			}
			events = append(events, Event{
				Time: 0.5, Type: EventContent, Label: "⚠️ Missing Content",
				Message:     fmt.Sprintf("You didn't mention your %s.", b.Name),
				SegmentText: "Structure Check",
			})
		}
	}
	if optional == 0 {
		events = append(events, Event{
			Time: 1.0, Type: EventContent, Label: "💡 Suggestion",
			Message:     "Try adding a Fun Fact or Ambition.",
			SegmentText: "Content Tip",
		})
	}

	if bd.Flow < r.Maxima.Flow {
		msg := "Speaking a bit slow."
		if in.WPM > r.SpeechRate.Ideal.Max {
			msg = "Speaking too fast!"
		}
		events = append(events, Event{
			Time: in.Duration - 1, Type: EventFlow, Label: "⚠️ Pace",
			Message:     fmt.Sprintf("%s (%d WPM).", msg, in.WPM),
			SegmentText: "Flow Analysis",
		})
	}
	if bd.Confidence < r.ConfidenceBar {
		events = append(events, Event{
			Time: in.Duration - 0.5, Type: EventConfidence, Label: "⚠️ Tone",
			Message:     "Tone sounded flat. Be more enthusiastic!",
			SegmentText: "Confidence Analysis",
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	if events == nil {
		events = []Event{}
	}

	topErrors := findings
	if len(topErrors) > 5 {
		topErrors = topErrors[:5]
	}
	if topErrors == nil {
		topErrors = []analyze.Finding{}
	}

	return &Report{
		OverallScore: e.overall(bd),
		Breakdown:    bd,
		Feedback:     feedback,
		Details:      Details{WPM: in.WPM, Duration: in.Duration, Errors: topErrors},
		Segments:     in.Segments,
		Events:       events,
		Text:         in.Text,
	}, nil
}

func (e *Engine) salutationPoints(text string) int {
	lower := strings.ToLower(text)
	for _, s := range e.rubric.StrongSalutations {
		if strings.Contains(lower, s) {
			return e.rubric.SalutationStrong
		}
	}
	// weak greetings are single words, matched per token so "this" does not
	// count as "hi"
	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, ".,!?;:\"'")
		for _, s := range e.rubric.WeakSalutations {
			if tok == s {
				return e.rubric.SalutationWeak
			}
		}
	}
	return 0
}

func (e *Engine) overall(bd Breakdown) int {
	max := e.rubric.Maxima.Sum()
	if max == 0 {
		return 0
	}
	normalized := float64(bd.Sum()) / float64(max) * 100
	return int(math.Round(math.Min(normalized, 100)))
}

func emptyReport(text string) *Report {
	return &Report{
		OverallScore: 0,
		Breakdown:    Breakdown{},
		Feedback:     map[string]string{"general": "No speech detected."},
		Details:      Details{Errors: []analyze.Finding{}},
		Segments:     []transcribe.Segment{},
		Events:       []Event{},
		Text:         text,
	}
}
