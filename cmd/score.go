package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nirmaan-labs/intro-coach/transcribe"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one submission from audio, pasted text or a transcript file",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringP("audio", "a", "", "path to audio file (wav/mp3/m4a)")
	scoreCmd.Flags().StringP("text", "t", "", "transcript text (no timing)")
	scoreCmd.Flags().String("transcript", "", "path to a transcript JSON file")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	audio, _ := cmd.Flags().GetString("audio")
	text, _ := cmd.Flags().GetString("text")
	transcriptPath, _ := cmd.Flags().GetString("transcript")

	var result *transcribe.Result
	switch {
	case audio != "":
		result, err = a.transcriber.Transcribe(ctx, audio)
		if err != nil {
			return fmt.Errorf("transcribe %s: %w", audio, err)
		}
	case transcriptPath != "":
		result, err = readTranscript(transcriptPath)
		if err != nil {
			return err
		}
	case text != "":
		result = transcribe.FromText(text)
	default:
		return fmt.Errorf("one of --audio, --text or --transcript is required")
	}

	report, err := a.engine.Score(ctx, result)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readTranscript(path string) (*transcribe.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r transcribe.Result
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	// hand-written files often omit word_count and timing
	r.Normalize()
	return &r, nil
}
