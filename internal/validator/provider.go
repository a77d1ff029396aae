package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"team-pulse/internal/domain"
)

// Validation es la re-puntuacion del proveedor externo sobre el resumen
// redactado. Conflicts lista los rasgos donde el proveedor contradice al
// consenso tier-1.
type Validation struct {
	TraitScores map[string]int `json:"traits"`
	Confidence  int            `json:"confidence"`
	Conflicts   []string       `json:"conflicts"`
	TokensUsed  int            `json:"-"`
}

// Provider es la unica abstraccion de acceso al modelo externo. La identidad
// del proveedor es intercambiable; credenciales y backoff viven en un solo
// lugar, no en cada componente.
type Provider interface {
	Validate(ctx context.Context, summary string) (Validation, error)
}

// HTTPProvider implementa Provider contra una API de chat completions
// OpenAI-compatible.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPProvider construye el cliente HTTP del proveedor de validacion.
func NewHTTPProvider(baseURL, apiKey, model string, logger *zap.Logger) *HTTPProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

func (p *HTTPProvider) Validate(ctx context.Context, summary string) (Validation, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: summary},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Validation{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return Validation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Validation{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Validation{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		p.logger.Warn("validation provider error", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return Validation{}, fmt.Errorf("provider http error: status=%d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return Validation{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return Validation{}, fmt.Errorf("provider api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return Validation{}, fmt.Errorf("provider empty response")
	}

	cleaned := extractFirstJSONObject(cleanJSONResponse(cr.Choices[0].Message.Content))
	if cleaned == "" {
		return Validation{}, fmt.Errorf("provider response has no JSON object")
	}

	var validation Validation
	if err := json.Unmarshal([]byte(cleaned), &validation); err != nil {
		return Validation{}, fmt.Errorf("parse validation: %w", err)
	}
	validation.TokensUsed = cr.Usage.TotalTokens
	return validation, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// outputFromValidation convierte la respuesta del proveedor en un ModelOutput
// tier2_llm listo para re-fusionar.
func outputFromValidation(v Validation) domain.ModelOutput {
	scores := make(map[string]int, len(v.TraitScores))
	for key, score := range v.TraitScores {
		scores[key] = domain.ClampScore(score)
	}
	return domain.ModelOutput{
		ModelType:   domain.ModelTier2LLM,
		TraitScores: scores,
		Confidence:  domain.ClampScore(v.Confidence),
		TokenCost:   v.TokensUsed,
		CreatedAt:   time.Now().UTC(),
	}
}
