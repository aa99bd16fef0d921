package emission

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/co2cast/core/model"
)

func sampleModel() LinearModel {
	return LinearModel{
		Intercept: 0.5,
		Weights: model.FeatureValues{
			EnergyPerCapita:       0.0001,
			FossilEnergyPerCapita: 0.0002,
			RenewablesShareEnergy: -0.05,
			EnergyPerGDP:          0.8,
		},
	}
}

func TestLinearModel_Predict(t *testing.T) {
	m := sampleModel()
	x := model.FeatureValues{EnergyPerCapita: 22000, FossilEnergyPerCapita: 17000, RenewablesShareEnergy: 18, EnergyPerGDP: 1.2}
	got := m.Predict(x)
	if math.Abs(got-6.16) > 1e-9 {
		t.Fatalf("expected 6.16 got %v", got)
	}
	if m.Predict(x) != got {
		t.Fatalf("prediction not deterministic")
	}
}

func TestLinearModel_PredictRows(t *testing.T) {
	m := sampleModel()
	rows := mat.NewDense(2, model.NumFeatures, []float64{
		22000, 17000, 18, 1.2,
		0, 0, 0, 0,
	})
	got := m.PredictRows(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(got))
	}
	x, _ := model.FromSlice(rows.RawRowView(0))
	if math.Abs(got[0]-m.Predict(x)) > 1e-12 {
		t.Fatalf("row prediction %v differs from Predict %v", got[0], m.Predict(x))
	}
	if got[1] != 0.5 {
		t.Fatalf("expected intercept for zero row, got %v", got[1])
	}
}

func TestLinearModel_PredictRowsPanicsOnShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	sampleModel().PredictRows(mat.NewDense(1, 3, nil))
}

func TestLinearModel_Validate(t *testing.T) {
	if err := sampleModel().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := sampleModel()
	m.Intercept = math.NaN()
	if m.Validate() == nil {
		t.Fatalf("expected intercept error")
	}
	m = sampleModel()
	m.Weights.EnergyPerGDP = math.Inf(-1)
	if m.Validate() == nil {
		t.Fatalf("expected weights error")
	}
}
