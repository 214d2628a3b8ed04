package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nirmaan-labs/intro-coach/clients"
)

// Segment is a time-bounded slice of the transcript, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the contract the scoring engine consumes, whether the transcript
// came from ASR or was pasted as plain text.
type Result struct {
	Text      string    `json:"text"`
	Segments  []Segment `json:"segments"`
	Duration  float64   `json:"duration"` // seconds
	WPM       int       `json:"wpm"`
	WordCount int       `json:"word_count"`
}

// Transcriber is a pluggable transcription backend.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// ErrUnknownProvider is returned when the configured ASR provider has no
// registered adapter.
var ErrUnknownProvider = errors.New("unknown asr provider")

// New selects the adapter for the configured provider name.
func New(provider, url string, h *clients.HTTP) (Transcriber, error) {
	switch provider {
	case "whisper-http":
		return &whisperHTTP{http: h, url: url}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// whisperHTTP adapts the whisper sidecar's /transcribe response.
type whisperHTTP struct {
	http *clients.HTTP
	url  string
}

func (w *whisperHTTP) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	resp, err := w.http.ASR(ctx, w.url, audioPath)
	if err != nil {
		return nil, err
	}

	segs := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		// older sidecar builds omit the top-level text field
		var b strings.Builder
		for _, s := range segs {
			b.WriteString(s.Text)
		}
		text = strings.TrimSpace(b.String())
	}

	// speech duration is the last segment's end, wpm follows from it
	var duration float64
	if len(segs) > 0 {
		duration = segs[len(segs)-1].End
	}
	wc := len(strings.Fields(text))
	wpm := 0
	if duration > 0 {
		wpm = int(float64(wc) / (duration / 60))
	}

	return &Result{Text: text, Segments: segs, Duration: duration, WPM: wpm, WordCount: wc}, nil
}

// assumedWPM is the speaking rate assumed for pasted text, which has no
// timing of its own.
const assumedWPM = 130

// Normalize fills derived fields a hand-written transcript file may omit:
// word count from the text, duration from the last segment or the assumed
// speaking rate, wpm from duration. Populated fields are left alone.
func (r *Result) Normalize() {
	if r.WordCount == 0 {
		r.WordCount = len(strings.Fields(r.Text))
	}
	if r.Duration == 0 && len(r.Segments) > 0 {
		r.Duration = r.Segments[len(r.Segments)-1].End
	}
	if r.Duration == 0 {
		r.Duration = float64(r.WordCount) / assumedWPM * 60
	}
	if r.WPM == 0 && r.Duration > 0 {
		r.WPM = int(float64(r.WordCount) / (r.Duration / 60))
	}
}

// FromText builds a Result for a text-only submission: no segments, duration
// estimated from an assumed ideal speaking rate.
func FromText(text string) *Result {
	text = strings.TrimSpace(text)
	wc := len(strings.Fields(text))
	duration := float64(wc) / assumedWPM * 60
	return &Result{
		Text:      text,
		Segments:  []Segment{},
		Duration:  duration,
		WPM:       assumedWPM,
		WordCount: wc,
	}
}
