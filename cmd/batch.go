package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Score every audio file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntP("workers", "w", 2, "concurrent scoring workers")
}

type batchItem struct {
	Path  string
	Score int
	Err   error
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers < 1 {
		workers = 1
	}

	paths, err := audioFiles(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no audio files in %s", args[0])
	}

	jobs := make(chan string)
	results := make(chan batchItem)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- scoreOne(ctx, a, p)
			}
		}()
	}
	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// a failed item is reported as failed, never as a zero score
	failed := 0
	for item := range results {
		if item.Err != nil {
			failed++
			a.log.WithError(item.Err).WithField("file", item.Path).Error("scoring failed")
			continue
		}
		a.log.WithFields(map[string]interface{}{
			"file":  item.Path,
			"score": item.Score,
		}).Info("scored")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed to score", failed, len(paths))
	}
	return nil
}

// scoreOne transcribes and scores a single file, writing the report next to
// the audio as <name>.score.json.
func scoreOne(ctx context.Context, a *app, path string) batchItem {
	result, err := a.transcriber.Transcribe(ctx, path)
	if err != nil {
		return batchItem{Path: path, Err: fmt.Errorf("transcribe: %w", err)}
	}
	report, err := a.engine.Score(ctx, result)
	if err != nil {
		return batchItem{Path: path, Err: fmt.Errorf("score: %w", err)}
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".score.json"
	f, err := os.Create(outPath)
	if err != nil {
		return batchItem{Path: path, Err: err}
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return batchItem{Path: path, Err: err}
	}
	return batchItem{Path: path, Score: report.OverallScore}
}

func audioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".wav", ".mp3", ".m4a":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
