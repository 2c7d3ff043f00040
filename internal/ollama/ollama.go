package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bimbi-gallery/gallery/internal/providers"
)

const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "llava"
)

// Ollama drafts painting descriptions with a local vision model
type Ollama struct {
	url         string
	model       string
	temperature float64
	client      *http.Client
}

// New returns a new Ollama describer
func New(url, model string) *Ollama {
	if url == "" {
		url = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Ollama{
		url:         strings.TrimRight(url, "/"),
		model:       model,
		temperature: 0.4,
		client:      &http.Client{},
	}
}

// Describe sends the image to /api/generate and returns the response text
func (o *Ollama) Describe(ctx context.Context, img providers.Image) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": providers.DescribePrompt,
		"images": []string{base64.StdEncoding.EncodeToString(img.Data)},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": o.temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return strings.TrimSpace(response.Response), nil
}
