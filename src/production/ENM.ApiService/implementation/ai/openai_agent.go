package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Config"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

// OpenAIAgent generates answers through the OpenAI chat completions API
type OpenAIAgent struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	logger      *logger.Logger
}

// NewOpenAIAgent creates a new OpenAI-backed agent
func NewOpenAIAgent(cfg *config.AIConfig, log *logger.Logger) *OpenAIAgent {
	return &OpenAIAgent{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      log.WithComponent("openai"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateResponse implements Agent. A failed or timed-out upstream call is
// surfaced as ErrProviderUnavailable; there is no retry.
func (a *OpenAIAgent) GenerateResponse(ctx context.Context, userMessage string, report *enmmodels.ConsumptionReport) (string, error) {
	reqBody := chatCompletionRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserContent(userMessage, report)},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w: %v", api_models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		a.logger.WithField("status", resp.StatusCode).Error("completion call rejected")
		return "", fmt.Errorf("completion call returned %d: %s: %w", resp.StatusCode, body, api_models.ErrProviderUnavailable)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices: %w", api_models.ErrProviderUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}

// Validate implements Agent by listing models, the cheapest authenticated
// round-trip the API offers.
func (a *OpenAIAgent) Validate(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.WithError(err).Warn("provider validation failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.WithField("status", resp.StatusCode).Warn("provider validation rejected")
		return false
	}
	return true
}
