// Package ai abstracts the text-generation provider behind the Agent
// interface. New providers plug in through the factory without changing
// callers.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// Agent generates natural-language answers from a user message and optional
// consumption data.
type Agent interface {
	// GenerateResponse produces the answer text. A nil report means the
	// message is forwarded without consumption context.
	GenerateResponse(ctx context.Context, userMessage string, report *enmmodels.ConsumptionReport) (string, error)

	// Validate performs a lightweight round-trip to confirm the provider is
	// reachable and the credentials are valid. Failures are reported by
	// returning false, never by panicking or erroring.
	Validate(ctx context.Context) bool
}

// systemPrompt is the fixed persona sent with every request
const systemPrompt = "Você é um assistente virtual especializado em monitoramento de consumo " +
	"de energia elétrica. Responda sempre em português brasileiro de forma amigável e clara."

// buildUserContent renders the prompt body. With a report it embeds the
// structured data and the original question plus a concise-answer
// instruction; without one the raw message is sent as-is.
func buildUserContent(userMessage string, report *enmmodels.ConsumptionReport) string {
	if report == nil {
		return userMessage
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		// The report is plain structs; marshalling cannot realistically
		// fail, but degrade to the bare message rather than erroring.
		return userMessage
	}

	return fmt.Sprintf(`
Dados de consumo disponíveis:
%s

A mensagem do usuário foi: %q

Responda de forma amigável, clara e em português brasileiro. Use os dados de consumo para fornecer informações precisas.
Se o usuário perguntar sobre consumo, custos, dispositivos ou estatísticas, use os dados fornecidos acima.
Mantenha a resposta concisa e útil, entre 2-4 frases.
`, data, userMessage)
}
