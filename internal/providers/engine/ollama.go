package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/pkg/retry"
)

// Ollama talks to a local ollama server through its native generate API.
type Ollama struct {
	baseProvider
	retrier *retry.Retrier
}

func NewOllama(baseURL, apiKey string, timeout time.Duration) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(baseURL, apiKey, timeout),
		retrier:      retry.NewDefaultRetrier(),
	}
}

func (o *Ollama) Generate(ctx context.Context, prompt, model string) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/api/generate", payload, o.authHeaders())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return result.Response, nil
}

// Models lists locally available models. The call is cheap, so transient
// transport errors are retried.
func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	type ollamaTag struct {
		Name string `json:"name"`
	}
	var result struct {
		Models []ollamaTag `json:"models"`
	}

	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodGet, "/api/tags", nil, o.authHeaders())
		if err != nil {
			return fmt.Errorf("ollama not available: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ollama returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, err
	}

	models := make([]core.Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, core.Model{
			ID:   m.Name,
			Name: m.Name,
		})
	}
	return models, nil
}
