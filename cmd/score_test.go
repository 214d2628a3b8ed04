package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadTranscriptDerivesWordCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	body := `{"text": "Good morning everyone, my name is Asha."}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	r, err := readTranscript(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.WordCount != 7 {
		t.Fatalf("word count %d, want 7 derived from text", r.WordCount)
	}
	if r.WPM != 130 {
		t.Fatalf("wpm %d, want assumed 130", r.WPM)
	}
	if r.Duration <= 0 {
		t.Fatalf("duration %v, want estimated positive value", r.Duration)
	}
}

func TestReadTranscriptKeepsExplicitFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	body := `{"text": "one two three", "word_count": 3, "wpm": 90, "duration": 2}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	r, err := readTranscript(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.WordCount != 3 || r.WPM != 90 || r.Duration != 2 {
		t.Fatalf("explicit fields changed: %+v", r)
	}
}
