package categorize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/pkg/models"
)

// healthRecheckInterval bounds how often an unhealthy provider is re-probed
// from the call path.
const healthRecheckInterval = time.Minute

// Manager manages the categorization provider and its lifecycle. Its
// Categorize method never fails the caller: on timeout, rate-limit rejection
// or provider error it returns the empty-tags fallback.
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	limiter  *rate.Limiter
	logger   *zap.Logger
	mu       sync.RWMutex
	healthy  bool

	// lastHealthCheck gates call-path rechecks of an unhealthy provider so a
	// provider that was down at startup is picked back up once it recovers.
	lastHealthCheck time.Time
}

// NewManager creates a new categorization manager instance
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	// Rate limit is configured in requests per minute; allow small bursts so
	// an ingestion batch with a handful of new rows is not throttled.
	rps := rate.Limit(float64(cfg.Categorizer.RateLimit) / 60.0)

	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		limiter: rate.NewLimiter(rps, 5),
		logger:  logger,
	}
}

// Start initializes the manager and creates the provider
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("starting categorization manager",
		zap.String("provider", m.config.Categorizer.Provider))

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create categorizer provider: %w", err)
	}
	m.provider = provider

	healthCtx, cancel := context.WithTimeout(ctx, m.config.Categorizer.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(healthCtx); err != nil {
		m.logger.Warn("categorizer health check failed, listings will be created with empty tags",
			zap.Error(err))
		m.healthy = false
		m.lastHealthCheck = time.Now()
		// Do not fail startup: categorization is best-effort by contract,
		// and the call path re-probes once the recheck interval elapses.
	} else {
		m.healthy = true
		m.logger.Info("categorization manager started",
			zap.String("provider", m.provider.GetProviderName()))
	}

	return nil
}

// Stop shuts down the manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = nil
	m.healthy = false
	return nil
}

// Categorize derives tags for a listing with a bounded timeout. Failures are
// logged and swallowed; the returned tag set is never nil.
func (m *Manager) Categorize(ctx context.Context, title, employer, description, location string) *models.OpportunityTags {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return models.EmptyTags()
	}
	if !healthy && !m.recheckHealth(ctx, provider) {
		return models.EmptyTags()
	}

	if !m.limiter.Allow() {
		m.logger.Debug("categorization skipped by rate limiter", zap.String("title", title))
		return models.EmptyTags()
	}

	callCtx, cancel := context.WithTimeout(ctx, m.config.Categorizer.Timeout)
	defer cancel()

	tags, err := provider.Categorize(callCtx, title, employer, description, location)
	if err != nil {
		m.logger.Warn("categorization failed, using empty tags",
			zap.String("title", title),
			zap.String("employer", employer),
			zap.Error(err))
		return models.EmptyTags()
	}

	return tags
}

// recheckHealth re-probes an unhealthy provider at most once per
// healthRecheckInterval and reports whether it has recovered. Callers between
// rechecks keep the empty-tags fallback without paying for a probe.
func (m *Manager) recheckHealth(ctx context.Context, provider Provider) bool {
	m.mu.Lock()
	if m.healthy {
		m.mu.Unlock()
		return true
	}
	if time.Since(m.lastHealthCheck) < healthRecheckInterval {
		m.mu.Unlock()
		return false
	}
	m.lastHealthCheck = time.Now()
	m.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, m.config.Categorizer.Timeout)
	defer cancel()

	if err := provider.IsHealthy(checkCtx); err != nil {
		m.logger.Debug("categorizer still unhealthy", zap.Error(err))
		return false
	}

	m.mu.Lock()
	m.healthy = true
	m.mu.Unlock()
	m.logger.Info("categorizer recovered", zap.String("provider", provider.GetProviderName()))
	return true
}

// IsHealthy reports whether the manager has a healthy provider
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}
