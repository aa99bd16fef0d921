package explain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/co2cast/core/emission"
	"github.com/kilianp07/co2cast/core/model"
)

func sampleModel() emission.LinearModel {
	return emission.LinearModel{
		Intercept: 0.5,
		Weights: model.FeatureValues{
			EnergyPerCapita:       0.0001,
			FossilEnergyPerCapita: 0.0002,
			RenewablesShareEnergy: -0.05,
			EnergyPerGDP:          0.8,
		},
	}
}

func sampleBackground() [][]float64 {
	return [][]float64{
		{17000, 14000, 6, 2.0},
		{19000, 15000, 10, 1.6},
		{21000, 16000, 14, 1.2},
	}
}

func linearState() State {
	expected := model.FeatureValues{EnergyPerCapita: 19000, FossilEnergyPerCapita: 15000, RenewablesShareEnergy: 10, EnergyPerGDP: 1.6}
	return State{Method: MethodLinear, Baseline: sampleModel().Predict(expected), Expected: expected}
}

func exactState() State {
	st := State{Method: MethodExact, Background: sampleBackground()}
	var sum float64
	for _, r := range st.Background {
		x, _ := model.FromSlice(r)
		sum += sampleModel().Predict(x)
	}
	st.Baseline = sum / float64(len(st.Background))
	return st
}

var inputs = []model.FeatureValues{
	{EnergyPerCapita: 22000, FossilEnergyPerCapita: 17000, RenewablesShareEnergy: 18, EnergyPerGDP: 1.2},
	{EnergyPerCapita: 15000, FossilEnergyPerCapita: 13000, RenewablesShareEnergy: 2, EnergyPerGDP: 2.4},
	{EnergyPerCapita: 19000, FossilEnergyPerCapita: 15000, RenewablesShareEnergy: 10, EnergyPerGDP: 1.6},
}

func TestExplain_Additivity(t *testing.T) {
	for _, st := range []State{linearState(), exactState()} {
		e, err := New(st, sampleModel(), Options{})
		require.NoError(t, err)
		for _, x := range inputs {
			exp := e.Explain(x)
			pred := sampleModel().Predict(x)
			assert.InDelta(t, pred-e.Baseline(), exp.Contributions.Sum(), 1e-9, "method %s", st.Method)
		}
	}
}

func TestExplain_PercentagesSumTo100(t *testing.T) {
	e, err := New(linearState(), sampleModel(), Options{})
	require.NoError(t, err)
	exp := e.Explain(inputs[0])
	for _, p := range exp.Percentages.Slice() {
		assert.GreaterOrEqual(t, p, 0.0)
	}
	assert.InDelta(t, 100.0, exp.Percentages.Sum(), 1e-9)

	// prediction equal to baseline: nothing to attribute
	exp = e.Explain(inputs[2])
	assert.Equal(t, model.FeatureValues{}, exp.Percentages)
	assert.Contains(t, exp.Interpretation, "has no effect on emissions")
}

func TestExplain_RankingMatchesMagnitude(t *testing.T) {
	e, err := New(linearState(), sampleModel(), Options{TopFeatures: 4})
	require.NoError(t, err)
	exp := e.Explain(inputs[0])
	require.Len(t, exp.Ranking, model.NumFeatures)
	for i := 1; i < len(exp.Ranking); i++ {
		assert.GreaterOrEqual(t, math.Abs(exp.Ranking[i-1].Contribution), math.Abs(exp.Ranking[i].Contribution))
	}

	// interpretation lists the features in ranking order
	last := -1
	for _, r := range exp.Ranking {
		idx := strings.Index(exp.Interpretation, r.Feature.Label())
		require.GreaterOrEqual(t, idx, 0, "missing %s", r.Feature)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestExplain_Wording(t *testing.T) {
	e, err := New(linearState(), sampleModel(), Options{TopFeatures: 4})
	require.NoError(t, err)
	exp := e.Explain(inputs[0])
	// contributions: energy +0.3, fossil +0.4, renewables -0.4, gdp -0.32
	assert.InDelta(t, 0.3, exp.Contributions.EnergyPerCapita, 1e-9)
	assert.InDelta(t, 0.4, exp.Contributions.FossilEnergyPerCapita, 1e-9)
	assert.InDelta(t, -0.4, exp.Contributions.RenewablesShareEnergy, 1e-9)
	assert.InDelta(t, -0.32, exp.Contributions.EnergyPerGDP, 1e-9)

	assert.True(t, strings.HasPrefix(exp.Interpretation, "Top drivers: "))
	assert.Contains(t, exp.Interpretation, "Fossil energy per capita increases emissions")
	assert.Contains(t, exp.Interpretation, "Renewables share of energy decreases emissions")
	assert.Contains(t, exp.Interpretation, "% impact)")
}

func TestRank_TiesAreDeterministic(t *testing.T) {
	c := model.FeatureValues{EnergyPerCapita: 1, FossilEnergyPerCapita: -1, RenewablesShareEnergy: 1, EnergyPerGDP: 2}
	r := Rank(c, Percentages(c))
	got := []model.Feature{r[0].Feature, r[1].Feature, r[2].Feature, r[3].Feature}
	assert.Equal(t, []model.Feature{model.EnergyPerGDP, model.EnergyPerCapita, model.FossilEnergyPerCapita, model.RenewablesShareEnergy}, got)
	assert.InDelta(t, 40.0, r[0].Percentage, 1e-9)
}

func TestInterpret_TopN(t *testing.T) {
	c := model.FeatureValues{EnergyPerCapita: 3, FossilEnergyPerCapita: -2, RenewablesShareEnergy: 1, EnergyPerGDP: 0.5}
	r := Rank(c, Percentages(c))
	s := Interpret(r, 2)
	assert.Equal(t, "Top drivers: Energy per capita increases emissions (46.2% impact); Fossil energy per capita decreases emissions (30.8% impact)", s)
	assert.Equal(t, "", Interpret(r, 0))
	assert.Equal(t, 3, strings.Count(Interpret(r, 10), ";"))
}

func TestExactMatchesLinearForLinearModel(t *testing.T) {
	lin := linearState()
	ex := exactState()
	// background mean equals the linear expectation
	require.InDelta(t, lin.Baseline, ex.Baseline, 1e-9)

	le, err := New(lin, sampleModel(), Options{})
	require.NoError(t, err)
	ee, err := New(ex, sampleModel(), Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodExact, ee.Method())
	for _, x := range inputs {
		a := le.Contributions(x).Slice()
		b := ee.Contributions(x).Slice()
		for i := range a {
			assert.InDelta(t, a[i], b[i], 1e-9)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	st := linearState()
	st.Baseline += 1
	_, err := New(st, sampleModel(), Options{})
	assert.Error(t, err)

	st = linearState()
	st.Method = "kernel"
	_, err = New(st, sampleModel(), Options{})
	assert.Error(t, err)

	st = exactState()
	st.Background = nil
	_, err = New(st, sampleModel(), Options{})
	assert.Error(t, err)

	st = exactState()
	st.Background = [][]float64{{1, 2, 3}}
	_, err = New(st, sampleModel(), Options{})
	assert.Error(t, err)

	st = linearState()
	st.Baseline = math.NaN()
	_, err = New(st, sampleModel(), Options{})
	assert.Error(t, err)

	st = linearState()
	st.Method = ""
	e, err := New(st, sampleModel(), Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodLinear, e.Method())
}
