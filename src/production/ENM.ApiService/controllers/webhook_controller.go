package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/ai"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/chatwoot"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/consumption"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/metrics"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	parser "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Parser"
)

// apologyMessage is the fixed fallback sent when the pipeline fails after an
// event was accepted.
const apologyMessage = "Desculpe, ocorreu um erro ao processar sua solicitação. Por favor, tente novamente."

// WebhookController is the conversation gateway: it normalizes inbound
// Chatwoot events, runs the parse → aggregate → generate pipeline and
// delivers the reply. The platform always gets a success-shaped
// acknowledgment so it never retries an event.
type WebhookController struct {
	sender      chatwoot.Sender
	consumption *consumption.Service
	agent       ai.Agent
	logger      *logger.Logger
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(sender chatwoot.Sender, consumptionService *consumption.Service, agent ai.Agent, log *logger.Logger) *WebhookController {
	return &WebhookController{
		sender:      sender,
		consumption: consumptionService,
		agent:       agent,
		logger:      log.WithComponent("webhook"),
	}
}

// RegisterRoutes registers the webhook routes with Gin
func (c *WebhookController) RegisterRoutes(router *gin.Engine) {
	webhook := router.Group("/webhook")
	{
		webhook.POST("/chatwoot", c.HandleChatwoot)
	}
}

// HandleChatwoot processes one Chatwoot webhook delivery
func (c *WebhookController) HandleChatwoot(ctx *gin.Context) {
	metrics.WebhookEventsReceived.Inc()

	var envelope enmmodels.WebhookEnvelope
	if err := ctx.ShouldBindJSON(&envelope); err != nil {
		// Malformed payloads are acknowledged too; a non-2xx status would
		// make Chatwoot redeliver the same event.
		c.logger.WithError(err).Warn("ignoring malformed webhook payload")
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	event := chatwoot.ExtractEvent(&envelope)
	if !chatwoot.ShouldProcess(event) {
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	metrics.WebhookEventsProcessed.Inc()

	c.logger.WithFields(map[string]interface{}{
		"conversation_id": event.ConversationID,
		"text":            event.Text,
	}).Info("processing inbound message")

	answer, err := c.runPipeline(ctx.Request.Context(), event)
	if err != nil {
		metrics.PipelineFailures.Inc()
		c.logger.WithError(err).WithField("conversation_id", event.ConversationID).Error("pipeline failed")
		c.deliverApology(ctx.Request.Context(), event.ConversationID)
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}

// runPipeline runs parse → aggregate → generate → deliver for one accepted
// event and returns the delivered answer.
func (c *WebhookController) runPipeline(ctx context.Context, event enmmodels.InboundEvent) (string, error) {
	parsed := parser.Parse(event.Text)

	report, err := c.consumption.Aggregate(ctx, parsed.DeviceID, parsed.Period)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}

	answer, err := c.agent.GenerateResponse(ctx, event.Text, report)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if err := c.sender.SendMessage(ctx, event.ConversationID, answer); err != nil {
		return "", fmt.Errorf("deliver: %w", err)
	}
	metrics.MessagesSent.WithLabelValues("answer").Inc()

	return answer, nil
}

// deliverApology makes one best-effort attempt to tell the user something
// went wrong. Its own failure is logged and swallowed.
func (c *WebhookController) deliverApology(ctx context.Context, conversationID string) {
	if err := c.sender.SendMessage(ctx, conversationID, apologyMessage); err != nil {
		c.logger.WithError(err).WithField("conversation_id", conversationID).Error("failed to deliver apology")
		return
	}
	metrics.MessagesSent.WithLabelValues("apology").Inc()
}
