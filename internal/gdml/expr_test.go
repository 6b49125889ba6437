package gdml

import (
	"math"
	"testing"
)

func TestEvalExpr(t *testing.T) {
	vars := map[string]float64{"width": 84, "wall": 1.5}
	tests := []struct {
		expr string
		want float64
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"1e3", 1000},
		{"2.5e-1", 0.25},
		{"width", 84},
		{"width / 2", 42},
		{"width - 2*wall", 81},
		{"(width - 2*wall) / 2", 40.5},
		{"2*pi", 2 * math.Pi},
		{"-(width + 6) / 2", -45},
	}
	for _, tt := range tests {
		got, err := evalExpr(tt.expr, vars)
		if err != nil {
			t.Fatalf("evalExpr(%q): %v", tt.expr, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("evalExpr(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvalExprErrors(t *testing.T) {
	for _, expr := range []string{"", "width", "1 +", "(2", "2 & 3", "4 / 0", "1..2"} {
		if _, err := evalExpr(expr, nil); err == nil {
			t.Errorf("evalExpr(%q): expected error", expr)
		}
	}
}
