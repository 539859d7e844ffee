package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/ai"
	config "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Config"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "json"})
}

func aiConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		Provider:       "openai",
		Model:          "gpt-3.5-turbo",
		APIKey:         "sk-test",
		BaseURL:        baseURL,
		MaxTokens:      200,
		Temperature:    0.7,
		RequestTimeout: 5 * time.Second,
	}
}

func TestNewAgentUnknownProvider(t *testing.T) {
	cfg := aiConfig("http://localhost")
	cfg.Provider = "frontier-9000"

	_, err := ai.NewAgent(cfg, testLogger())
	if !errors.Is(err, api_models.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestNewAgentOpenAI(t *testing.T) {
	agent, err := ai.NewAgent(aiConfig("http://localhost"), testLogger())
	if err != nil {
		t.Fatalf("NewAgent returned error: %v", err)
	}
	if agent == nil {
		t.Fatal("NewAgent returned nil agent")
	}
}

func TestGenerateResponse(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Você consumiu 0.20 kWh hoje."}},
			},
		})
	}))
	defer server.Close()

	agent := ai.NewOpenAIAgent(aiConfig(server.URL), testLogger())

	report := &enmmodels.ConsumptionReport{
		Period:  enmmodels.PeriodToday,
		Summary: enmmodels.ConsumptionSummary{TotalWh: "200.00", TotalKWh: "0.20", TotalCost: "0.19"},
	}

	answer, err := agent.GenerateResponse(context.Background(), "Qual o consumo hoje?", report)
	if err != nil {
		t.Fatalf("GenerateResponse returned error: %v", err)
	}
	if answer != "Você consumiu 0.20 kWh hoje." {
		t.Errorf("answer = %q", answer)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-3.5-turbo" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(200) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	if gotBody["temperature"] != 0.7 {
		t.Errorf("temperature = %v", gotBody["temperature"])
	}

	messages, ok := gotBody["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v, want system + user", gotBody["messages"])
	}
	system := messages[0].(map[string]interface{})
	if system["role"] != "system" {
		t.Errorf("first message role = %v, want system", system["role"])
	}
	user := messages[1].(map[string]interface{})
	if user["role"] != "user" {
		t.Errorf("second message role = %v, want user", user["role"])
	}
	content, _ := user["content"].(string)
	if !strings.Contains(content, "Qual o consumo hoje?") {
		t.Errorf("user content does not include the original question: %q", content)
	}
	if !strings.Contains(content, "200.00") {
		t.Errorf("user content does not include the report data: %q", content)
	}
}

func TestGenerateResponseWithoutReport(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Olá!"}},
			},
		})
	}))
	defer server.Close()

	agent := ai.NewOpenAIAgent(aiConfig(server.URL), testLogger())

	if _, err := agent.GenerateResponse(context.Background(), "Olá", nil); err != nil {
		t.Fatalf("GenerateResponse returned error: %v", err)
	}

	messages := gotBody["messages"].([]interface{})
	user := messages[1].(map[string]interface{})
	if user["content"] != "Olá" {
		t.Errorf("user content = %v, want the raw message", user["content"])
	}
}

func TestGenerateResponseUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	agent := ai.NewOpenAIAgent(aiConfig(server.URL), testLogger())

	_, err := agent.GenerateResponse(context.Background(), "Olá", nil)
	if !errors.Is(err, api_models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	agent := ai.NewOpenAIAgent(aiConfig(server.URL), testLogger())
	if !agent.Validate(context.Background()) {
		t.Error("Validate = false, want true")
	}

	badCfg := aiConfig(server.URL)
	badCfg.APIKey = "wrong"
	badAgent := ai.NewOpenAIAgent(badCfg, testLogger())
	if badAgent.Validate(context.Background()) {
		t.Error("Validate = true with bad credentials, want false")
	}
}
