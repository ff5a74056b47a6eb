package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-exchange/internal/domain"
)

// HTTPClient implementa CompletionClient contra una API OpenAI-compatible.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
	client    *http.Client
}

// NewHTTPClient construye un cliente apuntando a la API de chat completions.
// maxTokens acota el largo de cada completion (costo y latencia); timeout
// acota la llamada completa para que un upstream colgado no bloquee el request.
func NewHTTPClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
	}
}

// Complete envía la conversación completa al proveedor y extrae el texto de la
// primera choice. Un payload de error explícito produce *ProviderError; una
// respuesta sin choices utilizables produce FallbackResponse, no un error.
func (c *HTTPClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	reqBody := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	// El proveedor reporta errores dentro del body, con cualquier status HTTP.
	// Se inspecciona el payload antes que el status para poder propagar el
	// mensaje del proveedor tal cual.
	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: status=%d: %w", resp.StatusCode, err)
	}

	if cr.Error != nil {
		return "", &ProviderError{Message: cr.Error.Message}
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}

	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return FallbackResponse, nil
	}

	return cr.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model     string           `json:"model"`
	Messages  []domain.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
