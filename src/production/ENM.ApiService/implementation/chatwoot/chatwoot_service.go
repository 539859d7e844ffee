// Package chatwoot talks to the Chatwoot messaging platform: it normalizes
// inbound webhook envelopes, decides which events the pipeline should handle
// and delivers outbound replies.
package chatwoot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	config "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Config"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

// Sender delivers a message into a conversation
type Sender interface {
	SendMessage(ctx context.Context, conversationID, content string) error
}

// Service is the Chatwoot-backed Sender
type Service struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	accountID   string
	logger      *logger.Logger
}

// NewService creates a new Chatwoot service
func NewService(cfg *config.ChatwootConfig, log *logger.Logger) *Service {
	return &Service{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		accountID:   cfg.AccountID,
		logger:      log.WithComponent("chatwoot"),
	}
}

type outgoingMessage struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	Private     bool   `json:"private"`
}

// SendMessage posts an outgoing message into the conversation. A failed call
// is surfaced as ErrProviderUnavailable; there is no retry.
func (s *Service) SendMessage(ctx context.Context, conversationID, content string) error {
	url := fmt.Sprintf("%s/public/api/v1/accounts/%s/conversations/%s/messages",
		s.baseURL, s.accountID, conversationID)

	payload, err := json.Marshal(outgoingMessage{
		Content:     content,
		MessageType: "outgoing",
		Private:     false,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outgoing message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build message request: %w", err)
	}
	req.Header.Set("api_access_token", s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("message delivery failed: %w: %v", api_models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.WithField("status", resp.StatusCode).Error("message delivery rejected")
		return fmt.Errorf("message delivery returned %d: %s: %w", resp.StatusCode, body, api_models.ErrProviderUnavailable)
	}
	return nil
}

// ExtractEvent normalizes a webhook envelope into an InboundEvent.
// Chatwoot nests message and conversation either at the top level or under a
// payload key; both shapes are accepted.
func ExtractEvent(envelope *enmmodels.WebhookEnvelope) enmmodels.InboundEvent {
	message := envelope.Message
	conversation := envelope.Conversation
	if envelope.Payload != nil {
		if message == nil {
			message = envelope.Payload.Message
		}
		if conversation == nil {
			conversation = envelope.Payload.Conversation
		}
	}

	event := enmmodels.InboundEvent{Event: envelope.Event}

	if message != nil {
		event.MessageType = message.MessageType
		if event.MessageType == "" && message.Inbox != nil {
			event.MessageType = message.Inbox.ChannelType
		}
		event.Text = message.Content
		if event.Text == "" {
			event.Text = message.Text
		}
	}

	if conversation != nil {
		event.ConversationID = conversation.ID.String()
		if event.ConversationID == "" {
			event.ConversationID = conversation.ConversationID.String()
		}
	}

	return event
}

// ShouldProcess reports whether the event is an inbound human message worth
// running the pipeline for. Anything else is acknowledged and dropped.
func ShouldProcess(event enmmodels.InboundEvent) bool {
	// Events other than created/updated messages only pass when the message
	// type itself marks them as incoming.
	if event.Event != "message_created" && event.Event != "message.updated" {
		if event.MessageType != "incoming" {
			return false
		}
	}

	// Explicit non-incoming message types (our own outgoing replies included)
	// are never processed.
	if event.MessageType != "incoming" && event.MessageType != "" {
		return false
	}

	if event.ConversationID == "" || strings.TrimSpace(event.Text) == "" {
		return false
	}

	return true
}
