package playlist

import (
	"math"
	"testing"

	"songprint/internal/analysis"
)

// fingerprint builds a Version1 analysis with the given leading values, the
// rest zero.
func fingerprint(t *testing.T, leading ...float32) analysis.Analysis {
	t.Helper()
	values := make([]float32, analysis.Version1.FeatureCount())
	copy(values, leading)
	a, err := analysis.New(values, analysis.Version1)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestEuclideanIdentityAndSymmetry(t *testing.T) {
	a := fingerprint(t, 0.3, -0.7, 1)
	b := fingerprint(t, -0.2, 0.5)

	if d := Euclidean(a, a); d != 0 {
		t.Errorf("Euclidean(x, x) = %v, want 0", d)
	}
	if Euclidean(a, b) != Euclidean(b, a) {
		t.Error("Euclidean is not symmetric")
	}
}

func TestEuclideanKnownDistance(t *testing.T) {
	a := fingerprint(t, 3, 4)
	b := fingerprint(t)

	if d := Euclidean(a, b); math.Abs(float64(d)-5) > 1e-6 {
		t.Errorf("Euclidean = %v, want 5", d)
	}
}

func TestCosine(t *testing.T) {
	x := fingerprint(t, 1)
	y := fingerprint(t, 0, 1)
	scaled := fingerprint(t, 0.5)
	zero := fingerprint(t)

	if d := Cosine(x, y); math.Abs(float64(d)-1) > 1e-6 {
		t.Errorf("orthogonal cosine distance = %v, want 1", d)
	}
	if d := Cosine(x, scaled); math.Abs(float64(d)) > 1e-6 {
		t.Errorf("parallel cosine distance = %v, want 0", d)
	}
	if d := Cosine(x, zero); d != 0 {
		t.Errorf("zero-vector cosine distance = %v, want 0", d)
	}
}

func TestWeightedEuclidean(t *testing.T) {
	a := fingerprint(t, 1, 2)
	b := fingerprint(t)

	if d := WeightedEuclidean(nil)(a, b); d != Euclidean(a, b) {
		t.Errorf("nil matrix = %v, want plain euclidean %v", d, Euclidean(a, b))
	}

	n := analysis.Version1.FeatureCount()
	identity := make([][]float32, n)
	for i := range identity {
		identity[i] = make([]float32, n)
		identity[i][i] = 1
	}
	if d := WeightedEuclidean(identity)(a, b); math.Abs(float64(d-Euclidean(a, b))) > 1e-6 {
		t.Errorf("identity matrix = %v, want %v", d, Euclidean(a, b))
	}

	// Quadruple the weight of slot 0: contribution 1*4 + 4*1 = 8.
	identity[0][0] = 4
	if d := WeightedEuclidean(identity)(a, b); math.Abs(float64(d)-math.Sqrt(8)) > 1e-6 {
		t.Errorf("weighted distance = %v, want sqrt(8)", d)
	}
}
