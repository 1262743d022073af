package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/application/ports"
)

var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	anthropicSystemPrompt = `You extract auto parts listings from LIVE web search results.
Return ONLY a valid JSON object (no markdown, no code fences) with this exact structure:
{
  "listings": [
    {
      "title": "<part name as listed>",
      "store": "<retailer name, e.g. AutoZone>",
      "price": "<price string like $54.99, or empty if not shown>",
      "url": "<listing URL from the snippets>",
      "part_number": "<manufacturer part number if present>",
      "snippet": "<short availability/fitment note>",
      "confidence": <number between 0.0 and 1.0>
    }
  ],
  "note": "<one line, e.g. '7 parts found. Cheapest: $28.79 at RockAuto'>"
}

Rules:
- Use ONLY data from the snippets below. NO hallucinated parts, prices or URLs.
- 6 to 8 listings max, cheapest-first when prices are known.
- confidence: 0.9-1.0 = exact fitment stated, 0.7-0.89 = likely fit, <0.7 = uncertain.
- No text outside the JSON object.`
)

// AnthropicService implements LLMService against the Anthropic Messages
// REST API. Plain net/http, no SDK needed.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService builds the adapter. An empty apiKey makes calls fail
// with a descriptive error instead of panicking at startup.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Network timeout of 25s; the use case adds its own context deadline.
			Timeout: 25 * time.Second,
		},
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// jsonBlockRe captures the first { … last } so a JSON object survives being
// wrapped in prose.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractPartListings sends the search snippets to the model and parses the
// structured listings out of its reply.
func (s *AnthropicService) ExtractPartListings(
	ctx context.Context,
	req dto.PartsSearchRequest,
	snippets string,
) (*dto.PartsSearchDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ai: ANTHROPIC_API_KEY not configured")
	}

	userContent := fmt.Sprintf("Vehicle: %s\nQuery: %s\nZip: %s\n\n%s",
		req.Vehicle, req.Query, req.ZipCode, snippets)
	// The snippet blob can balloon past the model's useful window.
	if len(userContent) > 12000 {
		userContent = userContent[:12000]
	}

	payload := anthropicRequest{
		Model:       s.model,
		MaxTokens:   4000,
		Temperature: 0,
		System:      anthropicSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userContent},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	httpReq.Header.Set("x-api-key", s.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ai: timed out or canceled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ai: http call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("ai: anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("ai: anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("ai: decode response: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("ai: model returned empty response")
	}

	cleanJSON := extractJSON(anthResp.Content[0].Text)
	if cleanJSON == "" {
		return nil, fmt.Errorf("ai: no JSON object in model response: %s", anthResp.Content[0].Text)
	}

	var result dto.PartsSearchDTO
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("ai: parse listings JSON: %w (extracted: %s)", err, cleanJSON)
	}
	for i := range result.Listings {
		if result.Listings[i].Confidence < 0 {
			result.Listings[i].Confidence = 0
		} else if result.Listings[i].Confidence > 1 {
			result.Listings[i].Confidence = 1
		}
	}
	return &result, nil
}

// extractJSON pulls the first well-formed JSON object out of free text.
// Strips markdown code fences first, then falls back to a brace regex.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
