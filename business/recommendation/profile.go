package recommendation

import (
	"time"

	"marketReco/domain"
)

// UserProfile is a user's position in the embedding space.
// Interaction is the weighted mean of interacted item vectors and is nil when no
// interaction resolved to a catalog item with positive weight.
// Preference covers [companies | categories], each half summing to 1 when non-empty.
type UserProfile struct {
	Interaction []float64
	Preference  []float64
	TotalWeight float64
}

func (p UserProfile) hasInteraction() bool {
	return p.Interaction != nil
}

func (p UserProfile) hasPreference() bool {
	for _, v := range p.Preference {
		if v != 0 {
			return true
		}
	}
	return false
}

// Empty reports a profile with no usable interaction signal and no preferences.
func (p UserProfile) Empty() bool {
	return !p.hasInteraction() && !p.hasPreference()
}

// Vector is the interaction half followed by the preference half, or the
// preference half alone when there is no interaction half.
func (p UserProfile) Vector() []float64 {
	if !p.hasInteraction() {
		return append([]float64(nil), p.Preference...)
	}
	out := make([]float64, 0, len(p.Interaction)+len(p.Preference))
	out = append(out, p.Interaction...)
	out = append(out, p.Preference...)
	return out
}

// interactionWeightAt is the base weight of the interaction type, multiplied for
// purchases younger than the recency window.
func interactionWeightAt(in domain.Interaction, now time.Time, cfg Config) float64 {
	w := interactionWeight(in.Type)
	if in.Type == domain.InteractionBuy && now.Sub(in.CreatedAt) < cfg.RecencyWindow {
		w *= cfg.RecencyMultiplier
	}
	return w
}

// buildUserProfile aggregates the interaction log over item vectors and appends the
// explicit-preference vector. Interactions with items missing from the snapshot are skipped.
func buildUserProfile(
	history domain.UserHistory,
	index map[uint64]int,
	vectors [][]float64,
	vocab Vocabulary,
	cfg Config,
	now time.Time,
) UserProfile {
	profile := UserProfile{
		Preference: embedPreferences(history.Preferences, vocab),
	}

	var sum []float64
	total := 0.0
	for _, in := range history.Interactions {
		idx, ok := index[in.ProductID]
		if !ok {
			continue
		}

		w := interactionWeightAt(in, now, cfg)
		if w == 0 {
			continue
		}

		if sum == nil {
			sum = make([]float64, vocab.itemVectorLen())
		}
		for i, x := range vectors[idx] {
			sum[i] += x * w
		}
		total += w
	}

	if total > 0 {
		for i := range sum {
			sum[i] /= total
		}
		profile.Interaction = sum
		profile.TotalWeight = total
	}

	return profile
}

// embedPreferences builds membership indicators over the company then category
// vocabularies, normalizing each half to sum to 1.
func embedPreferences(prefs domain.Preferences, vocab Vocabulary) []float64 {
	comp := make([]float64, vocab.NumCompanies())
	for _, id := range prefs.Companies {
		if idx, ok := vocab.CompanyIndex(id); ok {
			comp[idx] = 1
		}
	}

	cat := make([]float64, vocab.NumCategories())
	for _, id := range prefs.Categories {
		if idx, ok := vocab.CategoryIndex(id); ok {
			cat[idx] = 1
		}
	}

	normalizeSum(comp)
	normalizeSum(cat)

	return append(comp, cat...)
}

func normalizeSum(vec []float64) {
	sum := 0.0
	for _, v := range vec {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range vec {
		vec[i] /= sum
	}
}
