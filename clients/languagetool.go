package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// --- LanguageTool (/v2/check) ---
type LTReplacement struct {
	Value string `json:"value"`
}
type LTMatch struct {
	Message      string          `json:"message"`
	Offset       int             `json:"offset"`
	Length       int             `json:"length"`
	Replacements []LTReplacement `json:"replacements"`
	Rule         struct {
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
	} `json:"rule"`
}
type LTResp struct {
	Matches []LTMatch `json:"matches"`
}

// LanguageTool talks to a LanguageTool server's standard v2 check API.
type LanguageTool struct {
	http *HTTP
	url  string
	lang string
}

func NewLanguageTool(h *HTTP, baseURL string) *LanguageTool {
	return &LanguageTool{http: h, url: baseURL, lang: "en-US"}
}

func (lt *LanguageTool) Check(ctx context.Context, text string) (*LTResp, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lt.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.url+"/v2/check",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := lt.http.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("languagetool %s: %s", resp.Status, string(body))
	}

	var out LTResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("languagetool decode: %w", err)
	}
	return &out, nil
}

// Ping verifies the server is reachable, used once at startup so an absent
// checker downgrades to rule-only grammar scoring instead of failing later.
func (lt *LanguageTool) Ping(ctx context.Context) error {
	_, err := lt.Check(ctx, "ping")
	return err
}
