package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2492dfd/stockLog-final/logger"
)

// Client sends a prompt to a language model and returns its text answer.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient talks to the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	cli     *http.Client
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: geminiBaseURL,
		cli:     &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

// NoopClient is used when no model is configured. It answers with a fixed
// message so the status flow can still be exercised.
type NoopClient struct{}

func (NoopClient) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop analysis client called", "prompt_bytes", len(prompt))
	return "AI 분석이 설정되지 않았습니다.", nil
}
