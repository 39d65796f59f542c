package sensitivity

import (
	"math"
	"testing"

	"github.com/iwvelando/capital-metrics/pkg/cashflow"
)

func TestRateSweep(t *testing.T) {
	flows := []float64{-100, 60, 60, 60}

	curve, err := RateSweep(flows, 0.05, 0.15, 20)
	if err != nil {
		t.Fatalf("RateSweep() unexpected error: %v", err)
	}
	if len(curve) != 20 {
		t.Fatalf("RateSweep() returned %d points, expected 20", len(curve))
	}
	if curve[0].Parameter != 0.05 {
		t.Errorf("first parameter = %v, expected 0.05", curve[0].Parameter)
	}
	if curve[len(curve)-1].Parameter != 0.15 {
		t.Errorf("last parameter = %v, expected 0.15", curve[len(curve)-1].Parameter)
	}

	// For a conventional project NPV must strictly decrease with the rate.
	for i := 1; i < len(curve); i++ {
		if curve[i].NPV >= curve[i-1].NPV {
			t.Fatalf("NPV not strictly decreasing at point %d: %.4f after %.4f",
				i, curve[i].NPV, curve[i-1].NPV)
		}
	}
}

func TestRateSweepMatchesEngine(t *testing.T) {
	flows := []float64{-100, 60, 60, 60}

	curve, err := RateSweep(flows, 0.10, 0.10, 1)
	if err != nil {
		t.Fatalf("RateSweep() unexpected error: %v", err)
	}
	if len(curve) != 1 {
		t.Fatalf("RateSweep() returned %d points, expected 1", len(curve))
	}
	expected, err := cashflow.NPV(flows, 0.10)
	if err != nil {
		t.Fatalf("NPV() unexpected error: %v", err)
	}
	if curve[0].NPV != expected {
		t.Errorf("single-point sweep NPV = %v, expected %v", curve[0].NPV, expected)
	}
}

func TestRateSweepErrors(t *testing.T) {
	flows := []float64{-100, 60}

	if _, err := RateSweep(flows, 0.05, 0.15, 0); err == nil {
		t.Error("RateSweep() expected error for zero points")
	}
	if _, err := RateSweep(flows, -1.5, 0.15, 5); err == nil {
		t.Error("RateSweep() expected error for rate below -1")
	}
}

func TestFlowScalingSweep(t *testing.T) {
	flows := []float64{-100, 60, 60, 60}

	curve, err := FlowScalingSweep(flows, 0.10, -0.5, 0.5, 20)
	if err != nil {
		t.Fatalf("FlowScalingSweep() unexpected error: %v", err)
	}
	if len(curve) != 20 {
		t.Fatalf("FlowScalingSweep() returned %d points, expected 20", len(curve))
	}

	// Scaling up positive periodic flows must strictly increase NPV.
	for i := 1; i < len(curve); i++ {
		if curve[i].NPV <= curve[i-1].NPV {
			t.Fatalf("NPV not strictly increasing at point %d: %.4f after %.4f",
				i, curve[i].NPV, curve[i-1].NPV)
		}
	}

	// Endpoints scale the periodic flows by half and by half again.
	if curve[0].Parameter != -0.5 {
		t.Errorf("first parameter = %v, expected -0.5", curve[0].Parameter)
	}
	if curve[len(curve)-1].Parameter != 0.5 {
		t.Errorf("last parameter = %v, expected 0.5", curve[len(curve)-1].Parameter)
	}
}

func TestFlowScalingSweepErrors(t *testing.T) {
	flows := []float64{-100, 60}

	if _, err := FlowScalingSweep(flows, 0.10, -0.5, 0.5, 0); err == nil {
		t.Error("FlowScalingSweep() expected error for zero points")
	}
	if _, err := FlowScalingSweep(flows, -1.0, -0.5, 0.5, 5); err == nil {
		t.Error("FlowScalingSweep() expected error for rate -1")
	}
}

func TestScaleFlows(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		scale    float64
		expected []float64
	}{
		{
			name:     "Half again",
			flows:    []float64{-100, 60, 40},
			scale:    0.5,
			expected: []float64{-100, 90, 60},
		},
		{
			name:     "Shrink by half",
			flows:    []float64{-100, 60, 40},
			scale:    -0.5,
			expected: []float64{-100, 30, 20},
		},
		{
			name:     "Zero scaling is identity",
			flows:    []float64{-100, 60},
			scale:    0,
			expected: []float64{-100, 60},
		},
		{
			name:     "Investment only",
			flows:    []float64{-100},
			scale:    0.25,
			expected: []float64{-100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleFlows(tt.flows, tt.scale)
			if len(result) != len(tt.expected) {
				t.Fatalf("ScaleFlows() length = %d, expected %d", len(result), len(tt.expected))
			}
			for i := range result {
				if math.Abs(result[i]-tt.expected[i]) > 1e-9 {
					t.Errorf("ScaleFlows()[%d] = %v, expected %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}
