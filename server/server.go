package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/nirmaan-labs/intro-coach/score"
	"github.com/nirmaan-labs/intro-coach/transcribe"
)

// Server exposes the scoring engine over HTTP for the review dashboard.
type Server struct {
	log         *logrus.Entry
	engine      *score.Engine
	transcriber transcribe.Transcriber
	http        *http.Server
}

func New(bind string, engine *score.Engine, transcriber transcribe.Transcriber, log *logrus.Entry) *Server {
	s := &Server{log: log, engine: engine, transcriber: transcriber}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.getHealth)
	mux.HandleFunc("/analyze", s.postAnalyze)

	s.http = &http.Server{Addr: bind, Handler: mux}
	return s
}

func (s *Server) Start() error {
	s.log.WithField("bind", s.http.Addr).Info("http server starting")
	return s.http.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server stopping")
	return s.http.Shutdown(ctx)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// postAnalyze accepts either a multipart audio file or a pasted transcript in
// the text field. Audio wins when both are present, it carries real timing.
func (s *Server) postAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	var (
		result *transcribe.Result
		err    error
	)

	if file, header, ferr := r.FormFile("file"); ferr == nil {
		defer file.Close()
		result, err = s.transcribeUpload(r.Context(), file, header.Filename)
		if err != nil {
			s.log.WithError(err).Error("transcription failed")
			writeError(w, http.StatusBadGateway, err)
			return
		}
	} else if text := firstNonEmpty(r.FormValue("text"), r.FormValue("text_input")); text != "" {
		result = transcribe.FromText(text)
	} else {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no input provided, upload audio or paste text"))
		return
	}

	report, err := s.engine.Score(r.Context(), result)
	if err != nil {
		s.log.WithError(err).Error("scoring failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// transcribeUpload spools the upload to a temp file for the ASR sidecar and
// removes it afterwards.
func (s *Server) transcribeUpload(ctx context.Context, file io.Reader, name string) (*transcribe.Result, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			s.log.WithError(rmErr).Warn("failed to delete temp upload")
		}
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return s.transcriber.Transcribe(ctx, tmp.Name())
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
