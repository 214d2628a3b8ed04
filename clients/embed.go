package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Embedding (/embed) ---
type EmbedReq struct {
	Texts []string `json:"texts"`
}
type EmbedResp struct {
	Embeddings [][]float64 `json:"embeddings"`
	Model      string      `json:"model"`
}

// Embedder posts sentence batches to a sentence-transformers sidecar and
// returns one vector per input text, in order.
type Embedder struct {
	http *HTTP
	url  string
}

func NewEmbedder(h *HTTP, url string) *Embedder { return &Embedder{http: h, url: url} }

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	b, _ := json.Marshal(EmbedReq{Texts: texts})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/embed", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed %s: %s", resp.Status, string(body))
	}

	var out EmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embed decode: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}
