package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nirmaan-labs/intro-coach/analyze"
	"github.com/nirmaan-labs/intro-coach/clients"
	"github.com/nirmaan-labs/intro-coach/config"
	"github.com/nirmaan-labs/intro-coach/score"
	"github.com/nirmaan-labs/intro-coach/transcribe"
)

var rootCmd = &cobra.Command{
	Use:   "intro-coach",
	Short: "Scores a spoken or written self-introduction against a fixed rubric",
}

func Execute() {
	rootCmd.AddCommand(scoreCmd, batchCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the long-lived handles: configuration, analyzers, the scoring
// engine and the transcription adapter. Built once per process.
type app struct {
	cfg         *config.Root
	rubric      config.Rubric
	log         *logrus.Logger
	engine      *score.Engine
	transcriber transcribe.Transcriber
}

func buildApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	lvl, err := logrus.ParseLevel(cfg.Pipeline.LogLvl)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	rubric, err := config.LoadRubric(cfg.RubricFile)
	if err != nil {
		return nil, err
	}

	h := clients.NewHTTP()

	if cfg.Services.Embedding.URL == "" {
		return nil, fmt.Errorf("services.embedding.url is required")
	}
	embedder := clients.NewEmbedder(h, cfg.Services.Embedding.URL)
	semantic, err := analyze.NewSemantic(embedder, rubric.SemanticThreshold)
	if err != nil {
		return nil, err
	}

	// a missing grammar checker downgrades to rule-only scoring, it never
	// aborts startup
	var checker analyze.Checker
	if cfg.Services.LanguageTool.URL != "" {
		lt := clients.NewLanguageTool(h, cfg.Services.LanguageTool.URL)
		if err := lt.Ping(ctx); err != nil {
			log.WithError(err).Warn("languagetool unreachable, grammar checker tier disabled")
		} else {
			checker = lt
		}
	}
	grammar := analyze.NewGrammar(checker, log.WithField("component", "grammar"))

	engine := score.NewEngine(rubric, grammar, semantic, analyze.NewSentiment(),
		log.WithField("component", "scorer"))

	transcriber, err := transcribe.New(cfg.ASRProvider, cfg.Services.ASR.URL, h)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, rubric: rubric, log: log, engine: engine, transcriber: transcriber}, nil
}
