package recommendation

import (
	"time"

	"marketReco/domain"
	"marketReco/pkg/config"
)

type Config struct {
	// result caps; the identified and anonymous paths differ on purpose
	IdentifiedLimit int
	AnonymousLimit  int

	// caller policy: lists of at most SparseThreshold items may be replaced by top-rated items
	SparseThreshold   int
	SparseBackfill    bool
	TopRatedMinRating float64

	RecencyWindow     time.Duration
	RecencyMultiplier float64

	// heuristic scorer adds JitterScale * U[0,1)
	JitterScale float64

	TrendingCacheTTL time.Duration
}

const (
	defaultIdentifiedLimit   = 10
	defaultAnonymousLimit    = 12
	defaultSparseThreshold   = 2
	defaultTopRatedMinRating = 4.0
	defaultRecencyWindow     = 30 * 24 * time.Hour
	defaultRecencyMultiplier = 2.0
	defaultJitterScale       = 2.0
	defaultTrendingCacheTTL  = 5 * time.Minute

	maxQuality = 5.0
)

var interactionWeights = map[domain.InteractionType]float64{
	domain.InteractionView:   1,
	domain.InteractionCart:   2,
	domain.InteractionRating: 3,
	domain.InteractionBuy:    6,
}

// interactionWeight returns the base weight of an interaction type; unknown types weigh 0.
func interactionWeight(t domain.InteractionType) float64 {
	return interactionWeights[t]
}

func DefaultConfig() Config {
	return Config{
		IdentifiedLimit:   defaultIdentifiedLimit,
		AnonymousLimit:    defaultAnonymousLimit,
		SparseThreshold:   defaultSparseThreshold,
		SparseBackfill:    true,
		TopRatedMinRating: defaultTopRatedMinRating,
		RecencyWindow:     defaultRecencyWindow,
		RecencyMultiplier: defaultRecencyMultiplier,
		JitterScale:       defaultJitterScale,
		TrendingCacheTTL:  defaultTrendingCacheTTL,
	}
}

// ConfigFrom maps the environment configuration onto engine settings,
// keeping defaults for anything unset or out of range.
func ConfigFrom(rc config.RecommendationConfig) Config {
	cfg := DefaultConfig()

	if rc.IdentifiedLimit > 0 {
		cfg.IdentifiedLimit = rc.IdentifiedLimit
	}
	if rc.AnonymousLimit > 0 {
		cfg.AnonymousLimit = rc.AnonymousLimit
	}
	if rc.SparseThreshold >= 0 {
		cfg.SparseThreshold = rc.SparseThreshold
	}
	cfg.SparseBackfill = rc.SparseBackfill
	if rc.TopRatedMinRating > 0 {
		cfg.TopRatedMinRating = rc.TopRatedMinRating
	}
	if rc.RecencyWindow > 0 {
		cfg.RecencyWindow = rc.RecencyWindow
	}
	if rc.RecencyMultiplier > 0 {
		cfg.RecencyMultiplier = rc.RecencyMultiplier
	}
	if rc.JitterScale >= 0 {
		cfg.JitterScale = rc.JitterScale
	}
	if rc.TrendingCacheTTL > 0 {
		cfg.TrendingCacheTTL = rc.TrendingCacheTTL
	}

	return cfg
}
