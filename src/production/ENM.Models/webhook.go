package enmmodels

import "encoding/json"

// WebhookInbox carries the inbox metadata Chatwoot attaches to a message
type WebhookInbox struct {
	ChannelType string `json:"channel_type"`
}

// WebhookMessage is the message object of a Chatwoot webhook event.
// Depending on the event shape the text arrives as content or text.
type WebhookMessage struct {
	Content     string        `json:"content"`
	Text        string        `json:"text"`
	MessageType string        `json:"message_type"`
	Inbox       *WebhookInbox `json:"inbox,omitempty"`
}

// WebhookConversation identifies the conversation a message belongs to
type WebhookConversation struct {
	ID             json.Number `json:"id"`
	ConversationID json.Number `json:"conversation_id"`
}

// WebhookEnvelope is the raw webhook body. Chatwoot nests message and
// conversation either at the top level or under a payload key.
type WebhookEnvelope struct {
	Event        string               `json:"event"`
	Message      *WebhookMessage      `json:"message"`
	Conversation *WebhookConversation `json:"conversation"`
	Payload      *struct {
		Message      *WebhookMessage      `json:"message"`
		Conversation *WebhookConversation `json:"conversation"`
	} `json:"payload"`
}

// InboundEvent is the normalized form of a webhook envelope. Transient,
// never persisted.
type InboundEvent struct {
	Event          string `json:"event"`
	MessageType    string `json:"message_type"`
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id"`
}
