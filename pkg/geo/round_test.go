package geo

import (
	"math"
	"testing"
)

func TestRound_Defaults(t *testing.T) {
	got := Round(45.4451574, 11.1331589)
	want := []float64{45.0, 11.0}

	if len(got) != len(want) {
		t.Fatalf("Round() returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Round()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRoundCoord(t *testing.T) {
	tests := []struct {
		name    string
		coord   float64
		res     float64
		ndigits int
		want    float64
	}{
		{"lat snaps down", 45.4451574, 0.5, 1, 45.0},
		{"lon snaps down", 11.1331589, 0.5, 1, 11.0},
		{"upper half cell", 10.8945678, 0.5, 1, 10.5},
		{"rounds before snapping", 34.125, 0.5, 1, 34.0},
		{"already on grid", 39.5, 0.5, 1, 39.5},
		{"negative floors toward -inf", -0.3, 0.5, 1, -0.5},
		{"negative lat", -45.4451574, 0.5, 1, -45.5},
		{"negative zero normalized", -0.04, 0.5, 1, 0},
		{"quarter degree grid", 45.37, 0.25, 2, 45.25},
		{"no snap with zero resolution", 1.234, 0, 2, 1.23},
		{"negative digits round to tens", 45.7, 0.5, -1, 50},
		{"negative digits tie to even", 25, 0, -1, 20},
		{"stored below tie rounds down", 0.95, 0.5, 1, 0.5},
		{"stored above tie rounds up", 0.45, 0.5, 1, 0.5},
		{"small negative rounds away", -0.05, 0.5, 1, -0.5},
		{"below tie stays in lower cell", 10.45, 0.5, 1, 10.0},
		{"negative below tie", -89.55, 0.5, 1, -89.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCoord(tt.coord, tt.res, tt.ndigits)
			if got != tt.want {
				t.Errorf("RoundCoord(%v, %v, %d) = %v, want %v", tt.coord, tt.res, tt.ndigits, got, tt.want)
			}
			if math.Signbit(got) && got == 0 {
				t.Errorf("RoundCoord(%v) returned negative zero", tt.coord)
			}
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	coords := []float64{
		45.4451574, 11.1331589, 10.8945678, -0.3, -179.99, 179.99,
		0, 0.49, 0.5, 0.51, -12.75, 89.95, 34.125, 39.814,
	}

	for _, c := range coords {
		once := Round(c)[0]
		twice := Round(once)[0]
		if once != twice {
			t.Errorf("Round(%v) = %v but Round(Round(%v)) = %v", c, once, c, twice)
		}
	}
}

func TestRoundCoords_PreservesOrderAndLength(t *testing.T) {
	got := RoundCoords(0.5, 1, 10.9, -10.9, 0.1)
	want := []float64{10.5, -11.0, 0}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RoundCoords()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if n := len(RoundCoords(0.5, 1)); n != 0 {
		t.Errorf("RoundCoords() with no coords returned %d values", n)
	}
}

func TestRoundCoord_NonFinite(t *testing.T) {
	if got := RoundCoord(math.Inf(1), 0.5, 1); !math.IsInf(got, 1) {
		t.Errorf("RoundCoord(+Inf) = %v, want +Inf", got)
	}
	if got := RoundCoord(math.NaN(), 0.5, 1); !math.IsNaN(got) {
		t.Errorf("RoundCoord(NaN) = %v, want NaN", got)
	}
}
