package categorize

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/pkg/models"
)

type stubProvider struct {
	healthErr    error
	healthProbes int
	calls        int
}

func (p *stubProvider) Categorize(_ context.Context, _, _, _, _ string) (*models.OpportunityTags, error) {
	p.calls++
	return &models.OpportunityTags{
		Categories: []string{"Software Engineering"},
		Confidence: 0.9,
	}, nil
}

func (p *stubProvider) IsHealthy(_ context.Context) error {
	p.healthProbes++
	return p.healthErr
}

func (p *stubProvider) GetProviderName() string { return "stub" }

func newTestManager(p Provider, healthy bool) *Manager {
	cfg := &config.Config{}
	cfg.Categorizer.Timeout = time.Second
	cfg.Categorizer.RateLimit = 600

	m := NewManager(cfg, zap.NewNop())
	m.provider = p
	m.healthy = healthy
	return m
}

func TestCategorize_UnhealthyProviderNotReprobedWithinInterval(t *testing.T) {
	p := &stubProvider{healthErr: errors.New("provider down")}
	m := newTestManager(p, false)
	m.lastHealthCheck = time.Now()

	tags := m.Categorize(context.Background(), "Intern", "Acme", "", "")
	if tags.Confidence != models.DefaultLowConfidence {
		t.Errorf("expected the empty-tags fallback, got %+v", tags)
	}
	if p.healthProbes != 0 || p.calls != 0 {
		t.Errorf("provider touched while inside the recheck interval: probes=%d calls=%d", p.healthProbes, p.calls)
	}
}

func TestCategorize_RecoversAfterStartupHealthFailure(t *testing.T) {
	p := &stubProvider{healthErr: errors.New("provider down")}
	m := newTestManager(p, false)

	// Interval elapsed, provider still down: fallback, one probe, and the
	// probe timestamp resets so the next call does not probe again.
	m.lastHealthCheck = time.Now().Add(-2 * healthRecheckInterval)
	tags := m.Categorize(context.Background(), "Intern", "Acme", "", "")
	if tags.Confidence != models.DefaultLowConfidence {
		t.Errorf("expected the empty-tags fallback while still down, got %+v", tags)
	}
	if p.healthProbes != 1 {
		t.Errorf("healthProbes = %d, want 1", p.healthProbes)
	}
	m.Categorize(context.Background(), "Intern", "Acme", "", "")
	if p.healthProbes != 1 {
		t.Errorf("re-probed before the interval elapsed: probes=%d", p.healthProbes)
	}

	// Provider comes back: the next due recheck flips the manager healthy and
	// real tags flow again.
	p.healthErr = nil
	m.lastHealthCheck = time.Now().Add(-2 * healthRecheckInterval)
	tags = m.Categorize(context.Background(), "Intern", "Acme", "", "")
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1 after recovery", p.calls)
	}
	if len(tags.Categories) == 0 || tags.Categories[0] != "Software Engineering" {
		t.Errorf("expected provider tags after recovery, got %+v", tags)
	}
	if !m.IsHealthy() {
		t.Error("manager should report healthy after a successful recheck")
	}
}

func TestCategorize_HealthyProviderIsUsedDirectly(t *testing.T) {
	p := &stubProvider{}
	m := newTestManager(p, true)

	tags := m.Categorize(context.Background(), "Intern", "Acme", "", "")
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", p.calls)
	}
	if tags.Confidence != 0.9 {
		t.Errorf("expected provider tags, got %+v", tags)
	}
	if p.healthProbes != 0 {
		t.Errorf("healthy provider probed on the call path: %d", p.healthProbes)
	}
}
