package model

// Forecast is the result of projecting drivers for a year and predicting
// per-capita emissions from them.
type Forecast struct {
	Year                  int           `json:"year"`
	PredictedCO2PerCapita float64       `json:"predicted_co2_per_capita"`
	ProjectedDrivers      FeatureValues `json:"projected_drivers"`
	// LowConfidence is set when the year lies far outside the span the
	// driver models were fitted on.
	LowConfidence bool `json:"low_confidence"`
}

// RankedFeature is one entry of an explanation ranking.
type RankedFeature struct {
	Feature      Feature `json:"feature"`
	Contribution float64 `json:"contribution"`
	Percentage   float64 `json:"percentage"`
}

// Explanation decomposes a prediction into additive per-feature
// contributions relative to Baseline.
type Explanation struct {
	Baseline       float64         `json:"baseline"`
	Contributions  FeatureValues   `json:"contributions"`
	Percentages    FeatureValues   `json:"percentages"`
	Ranking        []RankedFeature `json:"ranking"`
	Interpretation string          `json:"interpretation"`
}
