package quote

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

	"quotebot/internal/model"
	"quotebot/internal/observability"
)

var (
	// ErrUnavailable indica que nenhum endereço do serviço de preços foi configurado.
	ErrUnavailable = errors.New("pricing service not configured")
	// ErrStatus indica uma resposta não-2xx do serviço remoto.
	ErrStatus = errors.New("unexpected status from pricing service")
)

// Client fala com o serviço remoto de preços e tradução (JSON sobre HTTP).
type Client struct {
	base string
	http *http.Client
}

// NewClient cria o cliente. O timeout pertence ao transporte: o diálogo não tem
// timeout próprio.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimSuffix(strings.TrimSpace(base), "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Base() string {
	return c.base
}

// Quote envia POST {base}/quote e decodifica a resposta. Status não-2xx é erro.
func (c *Client) Quote(ctx context.Context, req model.QuoteRequest) (*model.QuoteResponse, error) {
	if c == nil || c.base == "" {
		return nil, ErrUnavailable
	}
	var resp model.QuoteResponse
	if err := c.post(ctx, "quote", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Translate envia POST {base}/translate. Resposta sem texto também é erro, para que o
// chamador use o original.
func (c *Client) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	if c == nil || c.base == "" {
		return "", ErrUnavailable
	}
	var resp model.TranslateResponse
	err := c.post(ctx, "translate", model.TranslateRequest{
		Text:       text,
		TargetLang: string(target),
		SourceLang: "auto",
	}, &resp)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("empty translation")
	}
	return resp.Text, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	started := time.Now()
	defer func() {
		observability.RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	}()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// a mensagem do servidor serve só para diagnóstico
		var diag struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(bodyBytes, &diag)
		return fmt.Errorf("%w: %s returned %d %s", ErrStatus, endpoint, resp.StatusCode, diag.Message)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
