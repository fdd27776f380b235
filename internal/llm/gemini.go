package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewGeminiClient(apiKey, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiClient) Configured() bool { return g.apiKey != "" }

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Generate calls models/{model}:generateContent and returns the first
// candidate's text.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}
	if req.Model == "" {
		return "", errors.New("missing model name")
	}
	if req.Prompt == "" {
		return "", errors.New("empty prompt")
	}

	parts := []geminiPart{{Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: req.Image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}

	genCfg := map[string]any{
		"temperature": 0.2,
	}
	if req.MaxTokens > 0 {
		genCfg["maxOutputTokens"] = req.MaxTokens
	}
	if req.JSONOnly {
		genCfg["responseMimeType"] = "application/json"
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": genCfg,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, req.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Model: req.Model, Status: resp.StatusCode, Body: string(raw)}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 ||
		result.Candidates[0].Content.Parts[0].Text == "" {
		return "", errors.New("empty gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// APIError is a non-200 reply from the model endpoint.
type APIError struct {
	Model  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("gemini %s: status %d: %s", e.Model, e.Status, body)
}
