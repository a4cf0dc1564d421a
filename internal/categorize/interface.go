// Package categorize enriches listings with AI-derived tags before scoring.
// The external call is strictly best-effort: bounded timeout, rate limited,
// and any failure falls back to empty tags with low confidence instead of
// surfacing to the caller.
package categorize

import (
	"context"

	"dailymatch-engine/pkg/models"
)

// Provider defines the interface for categorization providers
type Provider interface {
	// Categorize derives tag lists for a listing
	Categorize(ctx context.Context, title, employer, description, location string) (*models.OpportunityTags, error)

	// IsHealthy checks if the provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
