package score

import (
	"github.com/nirmaan-labs/intro-coach/analyze"
	"github.com/nirmaan-labs/intro-coach/transcribe"
)

type EventType string

const (
	EventGrammar    EventType = "grammar"
	EventClarity    EventType = "clarity"
	EventContent    EventType = "content"
	EventFlow       EventType = "flow"
	EventConfidence EventType = "confidence"
)

// Event is a time-anchored feedback item the review player can seek to.
type Event struct {
	Time        float64   `json:"time"`
	Type        EventType `json:"type"`
	Label       string    `json:"label"`
	Message     string    `json:"msg"`
	SegmentText string    `json:"segment_text"`
}

// Breakdown holds per-category points, each bounded by the rubric maximum.
type Breakdown struct {
	ContentStructure int `json:"content_structure"`
	Grammar          int `json:"grammar"`
	Clarity          int `json:"clarity"`
	Confidence       int `json:"confidence"`
	Flow             int `json:"flow"`
}

func (b Breakdown) Sum() int {
	return b.ContentStructure + b.Grammar + b.Clarity + b.Confidence + b.Flow
}

type Details struct {
	WPM      int               `json:"wpm"`
	Duration float64           `json:"duration"`
	Errors   []analyze.Finding `json:"errors"`
}

// Report is the complete scoring output, a value object with no further
// lifecycle.
type Report struct {
	OverallScore int                  `json:"overall_score"`
	Breakdown    Breakdown            `json:"breakdown"`
	Feedback     map[string]string    `json:"feedback"`
	Details      Details              `json:"details"`
	Segments     []transcribe.Segment `json:"segments"`
	Events       []Event              `json:"events"`
	Text         string               `json:"text"`
}
