// Package news implements the AI web-search backend client used to fetch
// current quantum-computing news.
package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	responsesURL   = "https://api.openai.com/v1/responses"
	searchModel    = "gpt-4o"
	requestTimeout = 90 * time.Second
)

// Client calls the OpenAI Responses API with the web-search tool enabled.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: responsesURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type responsesRequest struct {
	Model string         `json:"model"`
	Tools []responseTool `json:"tools"`
	Input string         `json:"input"`
}

type responseTool struct {
	Type string `json:"type"`
}

type outputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outputItem struct {
	Type    string          `json:"type"`
	Content []outputContent `json:"content"`
}

type responsesResponse struct {
	Output []outputItem `json:"output"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// FetchLatest asks the search backend for the six most recent news items
// and returns the model's raw text output. The prompt demands a bare JSON
// array; the caller parses and validates it.
func (c *Client) FetchLatest(ctx context.Context) (string, error) {
	body, err := json.Marshal(responsesRequest{
		Model: searchModel,
		Tools: []responseTool{{Type: "web_search_preview"}},
		Input: newsPrompt(time.Now()),
	})
	if err != nil {
		return "", fmt.Errorf("encode news request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("news backend: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("news backend: status %d", resp.StatusCode)
	}

	var parsed responsesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode news response: %w", err)
	}

	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text, nil
			}
		}
	}
	return "", fmt.Errorf("news backend: no text output in response")
}

func newsPrompt(now time.Time) string {
	currentDate := now.Format("2006-01-02")
	return fmt.Sprintf(`Search the web for the 6 most recent and significant quantum computing news articles and developments from the past week (as of %s).

For each news item, provide:
1. The exact title from the article
2. A brief 2-3 sentence summary
3. The source/publication name
4. The publication date (format: YYYY-MM-DD)
5. The URL to the article
6. A category (one of: "Research", "Industry", "Hardware", "Software", "Policy", "Education")

Focus on:
- Major breakthroughs in quantum computing research
- New quantum hardware announcements
- Quantum software and algorithm developments
- Industry partnerships and investments
- Government policies and initiatives

Return ONLY a valid JSON array with objects containing: title, summary, source, date, url, category

IMPORTANT: Return ONLY the JSON array, no other text or markdown formatting.`, currentDate)
}
