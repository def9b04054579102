// Package ai calls the generative-completion collaborator with a strict
// structured-output contract and parses the suggestions it returns.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yudhap/cinematch/common"
)

const serviceName = "completion"

// ErrMalformedResponse marks completion output that fails the schema
// contract. Treated as "no recommendations this run" rather than retried:
// redelivering the same prompt to a degraded model rarely helps, and the
// user's stored recommendations stay untouched.
var ErrMalformedResponse = errors.New("completion response failed schema validation")

// Suggestion is one proposed title with the model's one-line reason.
type Suggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	HTTP    *http.Client
}

func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type suggestionList struct {
	Recommendation []Suggestion `json:"recommendation"`
}

// recommendationSchema is the strict output contract:
// { recommendation: [{ title, reason }] }, no additional properties.
var recommendationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"recommendation": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"reason": {"type": "string"}
				},
				"required": ["title", "reason"],
				"additionalProperties": false
			}
		}
	},
	"required": ["recommendation"],
	"additionalProperties": false
}`)

// Suggest sends the prompt and returns the parsed suggestion list.
// Transport and HTTP failures come back as *common.UpstreamError
// (retryable); output that cannot be parsed against the schema comes back
// as ErrMalformedResponse (not retryable).
func (c *Client) Suggest(ctx context.Context, prompt string) ([]Suggestion, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "Extract the movie recommendation information."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "recommendation",
				Strict: true,
				Schema: recommendationSchema,
			},
		},
	}
	b, _ := json.Marshal(payload)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, common.Upstreamf(serviceName, 0, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, common.Upstreamf(serviceName, res.StatusCode, nil)
	}

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, common.Upstreamf(serviceName, res.StatusCode, fmt.Errorf("decode completion response: %w", err))
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, ErrMalformedResponse
	}

	var parsed suggestionList
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &parsed); err != nil {
		return nil, ErrMalformedResponse
	}

	return parsed.Recommendation, nil
}
