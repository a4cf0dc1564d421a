package categorize

import (
	"fmt"

	"dailymatch-engine/internal/categorize/providers"
	"dailymatch-engine/internal/config"
)

// Factory creates categorization providers based on configuration
type Factory struct {
	config *config.Config
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{config: cfg}
}

// CreateProvider creates a provider instance based on the configured name
func (f *Factory) CreateProvider() (Provider, error) {
	switch f.config.Categorizer.Provider {
	case "claude":
		return providers.NewClaudeProvider(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported categorizer provider: %s", f.config.Categorizer.Provider)
	}
}
