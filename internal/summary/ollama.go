package summary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaSummarizer talks to a local Ollama server. Requests are serialized
// with a mutex: a single-user instance gains nothing from hammering a local
// model concurrently.
type OllamaSummarizer struct {
	client  *api.Client
	prompt  string
	model   string
	timeout time.Duration
	mu      sync.Mutex
}

func NewOllamaSummarizer(host, prompt, model string, timeout time.Duration) *OllamaSummarizer {
	c := api.NewClient(&url.URL{
		Scheme: "http",
		Host:   host,
		Path:   "/",
	}, &http.Client{})

	return &OllamaSummarizer{
		client:  c,
		prompt:  prompt,
		model:   model,
		timeout: timeout,
	}
}

func (o *OllamaSummarizer) Summarize(text string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	var parts []string
	err := o.client.Generate(ctx, &api.GenerateRequest{
		Model:  o.model,
		System: o.prompt,
		Prompt: text,
	}, func(resp api.GenerateResponse) error {
		parts = append(parts, resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(parts, ""), nil
}
