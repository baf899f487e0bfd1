package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLCOE_GeothermalReference(t *testing.T) {
	f, err := New(7473340, 4918, 27)
	require.NoError(t, err)

	lcoe, err := f.LCOE(6962999, DefaultDiscountRate)
	require.NoError(t, err)

	assert.InDelta(t, 0.05926970484809364, lcoe, 1e-12)
}

func TestLCOE_ZeroRate(t *testing.T) {
	f, err := New(1000, 100, 10)
	require.NoError(t, err)

	lcoe, err := f.LCOE(500, 0)
	require.NoError(t, err)

	// (1000 + 10*100) / (10*500)
	assert.InDelta(t, 0.4, lcoe, 1e-12)
}

func TestLCOE_HigherRateRaisesCost(t *testing.T) {
	f, err := New(1e6, 1e3, 20)
	require.NoError(t, err)

	low, err := f.LCOE(1e5, 0.01)
	require.NoError(t, err)
	high, err := f.LCOE(1e5, 0.08)
	require.NoError(t, err)

	assert.Greater(t, high, low)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		investment float64
		yearly     float64
		life       int
	}{
		{"negative investment", -1, 0, 10},
		{"negative yearly cost", 0, -5, 10},
		{"zero life", 100, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.investment, tt.yearly, tt.life)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLCOE_InvalidArguments(t *testing.T) {
	f, err := New(100, 1, 5)
	require.NoError(t, err)

	_, err = f.LCOE(0, 0.03)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.LCOE(100, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.PlantLife = 0
	_, err = f.LCOE(100, 0.03)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
