package explain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kilianp07/co2cast/core/model"
)

// Percentages returns |c_i| / sum|c_j| * 100 for every driver. When all
// contributions are zero every share is zero.
func Percentages(c model.FeatureValues) model.FeatureValues {
	abs := c.Map(math.Abs)
	total := abs.Sum()
	if total == 0 {
		return model.FeatureValues{}
	}
	return abs.Map(func(v float64) float64 { return v / total * 100 })
}

// Rank orders drivers by descending absolute contribution. Exact ties keep
// the canonical feature order.
func Rank(c, pct model.FeatureValues) []model.RankedFeature {
	out := make([]model.RankedFeature, 0, model.NumFeatures)
	for _, f := range model.Features {
		out = append(out, model.RankedFeature{Feature: f, Contribution: c.Get(f), Percentage: pct.Get(f)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Contribution) > math.Abs(out[j].Contribution)
	})
	return out
}

// Interpret renders the top n ranked drivers as a sentence.
func Interpret(ranking []model.RankedFeature, n int) string {
	if n > len(ranking) {
		n = len(ranking)
	}
	if n <= 0 {
		return ""
	}
	parts := make([]string, 0, n)
	for _, r := range ranking[:n] {
		parts = append(parts, fmt.Sprintf("%s %s (%.1f%% impact)", r.Feature.Label(), effect(r.Contribution), r.Percentage))
	}
	return "Top drivers: " + strings.Join(parts, "; ")
}

func effect(c float64) string {
	switch {
	case c > 0:
		return "increases emissions"
	case c < 0:
		return "decreases emissions"
	default:
		return "has no effect on emissions"
	}
}
