package recommendation

import (
	"testing"
	"time"

	"marketReco/domain"
	"marketReco/pkg/config"
)

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.RecommendationConfig{
		IdentifiedLimit:   5,
		AnonymousLimit:    0,
		SparseThreshold:   1,
		SparseBackfill:    false,
		RecencyWindow:     7 * 24 * time.Hour,
		RecencyMultiplier: -1,
		JitterScale:       0,
	})

	if cfg.IdentifiedLimit != 5 || cfg.AnonymousLimit != defaultAnonymousLimit {
		t.Fatalf("limits = %d/%d", cfg.IdentifiedLimit, cfg.AnonymousLimit)
	}
	if cfg.SparseThreshold != 1 || cfg.SparseBackfill {
		t.Fatalf("sparse policy = %d/%v", cfg.SparseThreshold, cfg.SparseBackfill)
	}
	if cfg.RecencyWindow != 7*24*time.Hour || cfg.RecencyMultiplier != defaultRecencyMultiplier {
		t.Fatalf("recency = %v x%v", cfg.RecencyWindow, cfg.RecencyMultiplier)
	}
	if cfg.JitterScale != 0 {
		t.Fatalf("jitter scale = %v, want 0", cfg.JitterScale)
	}
}

func TestInteractionWeightTable(t *testing.T) {
	want := map[domain.InteractionType]float64{"view": 1, "cart": 2, "rating": 3, "buy": 6, "share": 0}
	for typ, w := range want {
		if got := interactionWeight(typ); got != w {
			t.Fatalf("weight(%s) = %v, want %v", typ, got, w)
		}
	}
}
