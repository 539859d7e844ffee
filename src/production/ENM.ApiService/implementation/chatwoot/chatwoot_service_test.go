package chatwoot_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/chatwoot"
	config "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Config"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "json"})
}

func decodeEnvelope(t *testing.T, raw string) *enmmodels.WebhookEnvelope {
	t.Helper()
	var envelope enmmodels.WebhookEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return &envelope
}

func TestExtractEventTopLevel(t *testing.T) {
	envelope := decodeEnvelope(t, `{
		"event": "message_created",
		"message": {"content": "Qual o consumo hoje?", "message_type": "incoming"},
		"conversation": {"id": 42}
	}`)

	event := chatwoot.ExtractEvent(envelope)

	if event.Event != "message_created" {
		t.Errorf("Event = %q, want message_created", event.Event)
	}
	if event.MessageType != "incoming" {
		t.Errorf("MessageType = %q, want incoming", event.MessageType)
	}
	if event.Text != "Qual o consumo hoje?" {
		t.Errorf("Text = %q", event.Text)
	}
	if event.ConversationID != "42" {
		t.Errorf("ConversationID = %q, want 42", event.ConversationID)
	}
}

func TestExtractEventNestedPayload(t *testing.T) {
	envelope := decodeEnvelope(t, `{
		"event": "message_created",
		"payload": {
			"message": {"text": "consumo da semana", "inbox": {"channel_type": "incoming"}},
			"conversation": {"conversation_id": 7}
		}
	}`)

	event := chatwoot.ExtractEvent(envelope)

	if event.Text != "consumo da semana" {
		t.Errorf("Text = %q, want text from nested payload", event.Text)
	}
	if event.MessageType != "incoming" {
		t.Errorf("MessageType = %q, want channel_type fallback", event.MessageType)
	}
	if event.ConversationID != "7" {
		t.Errorf("ConversationID = %q, want 7", event.ConversationID)
	}
}

func TestShouldProcess(t *testing.T) {
	tests := []struct {
		name  string
		event enmmodels.InboundEvent
		want  bool
	}{
		{
			name:  "incoming message",
			event: enmmodels.InboundEvent{Event: "message_created", MessageType: "incoming", Text: "oi", ConversationID: "1"},
			want:  true,
		},
		{
			name:  "created message without explicit type",
			event: enmmodels.InboundEvent{Event: "message_created", Text: "oi", ConversationID: "1"},
			want:  true,
		},
		{
			name:  "outgoing message",
			event: enmmodels.InboundEvent{Event: "message_created", MessageType: "outgoing", Text: "oi", ConversationID: "1"},
			want:  false,
		},
		{
			name:  "unrelated event kind",
			event: enmmodels.InboundEvent{Event: "conversation_status_changed", Text: "oi", ConversationID: "1"},
			want:  false,
		},
		{
			name:  "unrelated event but incoming type",
			event: enmmodels.InboundEvent{Event: "conversation_updated", MessageType: "incoming", Text: "oi", ConversationID: "1"},
			want:  true,
		},
		{
			name:  "missing conversation id",
			event: enmmodels.InboundEvent{Event: "message_created", MessageType: "incoming", Text: "oi"},
			want:  false,
		},
		{
			name:  "whitespace-only text",
			event: enmmodels.InboundEvent{Event: "message_created", MessageType: "incoming", Text: "   ", ConversationID: "1"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chatwoot.ShouldProcess(tt.event); got != tt.want {
				t.Errorf("ShouldProcess(%+v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("api_access_token")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	svc := chatwoot.NewService(&config.ChatwootConfig{
		BaseURL:        server.URL,
		AccessToken:    "token-123",
		AccountID:      "acc1",
		RequestTimeout: 5 * time.Second,
	}, testLogger())

	if err := svc.SendMessage(context.Background(), "42", "resposta"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if gotPath != "/public/api/v1/accounts/acc1/conversations/42/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "token-123" {
		t.Errorf("api_access_token = %q", gotToken)
	}
	if gotBody["content"] != "resposta" {
		t.Errorf("content = %v", gotBody["content"])
	}
	if gotBody["message_type"] != "outgoing" {
		t.Errorf("message_type = %v", gotBody["message_type"])
	}
	if gotBody["private"] != false {
		t.Errorf("private = %v", gotBody["private"])
	}
}

func TestSendMessageRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := chatwoot.NewService(&config.ChatwootConfig{
		BaseURL:        server.URL,
		AccessToken:    "bad",
		AccountID:      "acc1",
		RequestTimeout: 5 * time.Second,
	}, testLogger())

	err := svc.SendMessage(context.Background(), "42", "resposta")
	if !errors.Is(err, api_models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
