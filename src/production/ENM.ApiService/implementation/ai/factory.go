package ai

import (
	"fmt"
	"strings"

	config "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Config"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

// NewAgent creates the agent selected by cfg.Provider. An unknown provider
// name is a startup failure, not a per-request one.
func NewAgent(cfg *config.AIConfig, log *logger.Logger) (Agent, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIAgent(cfg, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", api_models.ErrUnsupportedProvider, cfg.Provider)
	}
}

// AvailableProviders lists the provider names NewAgent accepts
func AvailableProviders() []string {
	return []string{"openai"}
}
