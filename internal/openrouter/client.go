// Package openrouter is the gateway to the OpenRouter chat completions
// API. It issues single, no-retry requests; the council layer decides what
// a failure means.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"llm-council/internal/config"
)

// Message is one role-tagged chat message. Content is either a plain
// string or a []ContentPart for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal content array.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL, typically a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// Reply is the extracted assistant message from a completion response.
type Reply struct {
	Content          string `json:"content"`
	ReasoningDetails any    `json:"reasoning_details,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningDetails any    `json:"reasoning_details,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}

// UserContent builds message content from text plus optional image data
// URLs: plain string when there are no images, otherwise a content array
// with the text part first and one image part per image in input order.
func UserContent(text string, images []string) any {
	if len(images) == 0 {
		return text
	}
	parts := []ContentPart{{Type: "text", Text: text}}
	for _, url := range images {
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}})
	}
	return parts
}

// Client talks to the OpenRouter API. The zero value is not usable; create
// one with NewClient.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a client for the production OpenRouter endpoint with
// the standard per-model query timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: config.OpenRouterAPIURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: config.ModelQueryTimeout,
		},
	}
}

// Complete sends one chat completion request to a model. A non-nil
// reasoning parameter is merged into the payload under its resolved name.
// Transport errors, non-2xx statuses, and malformed bodies all surface as
// an error return; there is exactly one attempt per call.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, reasoning *config.ReasoningParam) (*Reply, error) {
	payload := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if reasoning != nil {
		payload[reasoning.Name] = reasoning.Value
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed apiResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	message := parsed.Choices[0].Message
	return &Reply{
		Content:          message.Content,
		ReasoningDetails: message.ReasoningDetails,
	}, nil
}
