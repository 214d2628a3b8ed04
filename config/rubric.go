package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WPMBand is an inclusive words-per-minute range.
type WPMBand struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (b WPMBand) Contains(wpm int) bool { return wpm >= b.Min && wpm <= b.Max }

type SpeechRate struct {
	Ideal WPMBand `yaml:"ideal"`
	Fast  WPMBand `yaml:"fast"`
	Slow  WPMBand `yaml:"slow"`
}

type Maxima struct {
	ContentStructure int `yaml:"content_structure"`
	Grammar          int `yaml:"grammar"`
	Clarity          int `yaml:"clarity"`
	Confidence       int `yaml:"confidence"`
	Flow             int `yaml:"flow"`
}

func (m Maxima) Sum() int {
	return m.ContentStructure + m.Grammar + m.Clarity + m.Confidence + m.Flow
}

// Bucket names a topic and the representative phrases used for semantic matching.
type Bucket struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// GrammarBands are thresholds on errors per 100 words.
type GrammarBands struct {
	FullBelow    float64 `yaml:"full_below"`    // < this many errors/100w → full marks
	PartialBelow float64 `yaml:"partial_below"` // < this → partial, else minimum
}

// ClarityBands are thresholds on filler rate in percent of word count.
type ClarityBands struct {
	FullBelow float64 `yaml:"full_below"`
	GoodBelow float64 `yaml:"good_below"`
	FairBelow float64 `yaml:"fair_below"`
}

// ConfidenceBands are thresholds on the positivity scalar in [0,1].
type ConfidenceBands struct {
	FullAbove float64 `yaml:"full_above"`
	GoodAbove float64 `yaml:"good_above"`
	FairAbove float64 `yaml:"fair_above"`
}

type Rubric struct {
	Maxima     Maxima     `yaml:"maxima"`
	SpeechRate SpeechRate `yaml:"speech_rate"`

	FillerWords   []string `yaml:"filler_words"`
	FillerPhrases []string `yaml:"filler_phrases"`

	// Content & structure pieces, summing to Maxima.ContentStructure.
	StrongSalutations []string `yaml:"strong_salutations"`
	WeakSalutations   []string `yaml:"weak_salutations"`
	SalutationStrong  int      `yaml:"salutation_strong_points"`
	SalutationWeak    int      `yaml:"salutation_weak_points"`
	MandatoryWeight   int      `yaml:"mandatory_weight"`
	OptionalWeight    int      `yaml:"optional_weight"`
	StructureBonus    int      `yaml:"structure_bonus"`

	Mandatory []Bucket `yaml:"mandatory_buckets"`
	Optional  Bucket   `yaml:"optional_bucket"`

	SemanticThreshold float64 `yaml:"semantic_threshold"`

	Grammar    GrammarBands    `yaml:"grammar_bands"`
	Clarity    ClarityBands    `yaml:"clarity_bands"`
	Confidence ConfidenceBands `yaml:"confidence_bands"`

	// ConfidenceBar is the score below which a tone event is emitted.
	ConfidenceBar int `yaml:"confidence_bar"`
}

// DefaultRubric is the self-introduction rubric: 40/20/15/15/10.
func DefaultRubric() Rubric {
	return Rubric{
		Maxima: Maxima{
			ContentStructure: 40,
			Grammar:          20,
			Clarity:          15,
			Confidence:       15,
			Flow:             10,
		},
		SpeechRate: SpeechRate{
			Ideal: WPMBand{Min: 111, Max: 140},
			Fast:  WPMBand{Min: 141, Max: 160},
			Slow:  WPMBand{Min: 81, Max: 110},
		},
		FillerWords: []string{
			"um", "uh", "like", "actually", "basically",
			"right", "mean", "okay", "hmm", "ah",
		},
		FillerPhrases: []string{"you know", "sort of", "kind of", "i mean"},
		StrongSalutations: []string{
			"good morning", "good afternoon", "hello everyone", "excited to",
		},
		WeakSalutations:  []string{"hi", "hello"},
		SalutationStrong: 5,
		SalutationWeak:   2,
		MandatoryWeight:  20,
		OptionalWeight:   10,
		StructureBonus:   5,
		Mandatory: []Bucket{
			{Name: "Identity", Phrases: []string{"my name is", "I am years old", "class", "student"}},
			{Name: "Family", Phrases: []string{"family", "parents", "mother", "father"}},
			{Name: "Hobbies", Phrases: []string{"hobby", "playing", "reading", "enjoy"}},
		},
		Optional: Bucket{
			Name: "Details",
			Phrases: []string{
				"ambition", "goal", "dream", "fun fact",
				"unique", "strength", "achievement", "from",
			},
		},
		SemanticThreshold: 0.45,
		Grammar:           GrammarBands{FullBelow: 2, PartialBelow: 5},
		Clarity:           ClarityBands{FullBelow: 3, GoodBelow: 6, FairBelow: 10},
		Confidence:        ConfidenceBands{FullAbove: 0.9, GoodAbove: 0.7, FairAbove: 0.5},
		ConfidenceBar:     12,
	}
}

// LoadRubric decodes a rubric YAML file, or returns the default when path is
// empty. The result is always validated.
func LoadRubric(path string) (Rubric, error) {
	r := DefaultRubric()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Rubric{}, fmt.Errorf("open rubric: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&r); err != nil {
			return Rubric{}, fmt.Errorf("decode rubric: %w", err)
		}
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

func (r Rubric) Validate() error {
	if s := r.Maxima.Sum(); s != 100 {
		return fmt.Errorf("rubric maxima sum to %d, want 100", s)
	}
	content := r.SalutationStrong + r.MandatoryWeight + r.OptionalWeight + r.StructureBonus
	if content != r.Maxima.ContentStructure {
		return fmt.Errorf("content pieces sum to %d, want %d", content, r.Maxima.ContentStructure)
	}
	if r.SemanticThreshold <= 0 || r.SemanticThreshold >= 1 {
		return fmt.Errorf("semantic threshold %.2f outside (0,1)", r.SemanticThreshold)
	}
	for _, b := range []WPMBand{r.SpeechRate.Ideal, r.SpeechRate.Fast, r.SpeechRate.Slow} {
		if b.Min > b.Max {
			return fmt.Errorf("wpm band [%d,%d] inverted", b.Min, b.Max)
		}
	}
	if r.SpeechRate.Slow.Max >= r.SpeechRate.Ideal.Min || r.SpeechRate.Ideal.Max >= r.SpeechRate.Fast.Min {
		return fmt.Errorf("wpm bands must be ordered slow < ideal < fast")
	}
	if len(r.Mandatory) == 0 {
		return fmt.Errorf("rubric has no mandatory buckets")
	}
	if r.Grammar.FullBelow >= r.Grammar.PartialBelow {
		return fmt.Errorf("grammar bands must be increasing")
	}
	return nil
}
