package plant

import (
	"context"
	"testing"

	"github.com/Sternrassler/renewables-client/internal/testutil"
	"github.com/Sternrassler/renewables-client/pkg/client"
	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPV(t *testing.T) *PV {
	t.Helper()

	cfg := DefaultPVConfig()
	cfg.ID = "test"
	cfg.Lat = 34.125
	cfg.Lon = 39.814
	cfg.KPV = 0.15

	pv, err := NewPV(cfg)
	require.NoError(t, err)
	return pv
}

func TestDefaultPVConfig(t *testing.T) {
	cfg := DefaultPVConfig()

	assert.Equal(t, "2014-01-01", cfg.DateFrom)
	assert.Equal(t, "2014-12-31", cfg.DateTo)
	assert.Equal(t, "merra2", cfg.Dataset)
	assert.Equal(t, 3.0, cfg.PeakPower)
	assert.Equal(t, 0.75, cfg.Efficiency)
	assert.Equal(t, 0, cfg.Tracking)
	assert.Equal(t, 30.0, cfg.Tilt)
	assert.Equal(t, 180.0, cfg.Azim)
	assert.Zero(t, cfg.KPV)
}

func TestNewPV_RoundsCoordinates(t *testing.T) {
	pv := newTestPV(t)

	assert.Equal(t, 34.0, pv.Lat)
	assert.Equal(t, 39.5, pv.Lon)
	assert.Equal(t, KindPV, pv.Kind())
	assert.Equal(t, "test", pv.Base().ID)
}

func TestNewPV_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PVConfig)
		field  string
	}{
		{"missing k_pv", func(c *PVConfig) { c.KPV = 0 }, "k_pv"},
		{"zero peak power", func(c *PVConfig) { c.PeakPower = 0 }, "peak_power"},
		{"efficiency above one", func(c *PVConfig) { c.Efficiency = 1.2 }, "efficiency"},
		{"negative efficiency", func(c *PVConfig) { c.Efficiency = -0.1 }, "efficiency"},
		{"bad tracking", func(c *PVConfig) { c.Tracking = 3 }, "tracking"},
		{"bad date", func(c *PVConfig) { c.DateFrom = "01/01/2014" }, "date_from"},
		{"reversed dates", func(c *PVConfig) { c.DateFrom, c.DateTo = "2015-01-01", "2014-01-01" }, "date_to"},
		{"empty dataset", func(c *PVConfig) { c.Dataset = "" }, "dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPVConfig()
			cfg.KPV = 0.15
			tt.mutate(&cfg)

			_, err := NewPV(cfg)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestPV_AreaAndEnergy(t *testing.T) {
	pv := newTestPV(t)

	assert.InDelta(t, 20.0, pv.Area(), 1e-9)
	assert.Equal(t, 3037.5, pv.ComputeEnergy(1350))
}

func TestPV_Params(t *testing.T) {
	pv := newTestPV(t)

	v := pv.Params(ProfileOptions{})

	assert.Equal(t, "34", v.Get("lat"))
	assert.Equal(t, "39.5", v.Get("lon"))
	assert.Equal(t, "2014-01-01", v.Get("date_from"))
	assert.Equal(t, "2014-12-31", v.Get("date_to"))
	assert.Equal(t, "merra2", v.Get("dataset"))
	assert.Equal(t, "3", v.Get("capacity"))
	assert.Equal(t, "25", v.Get("system_loss"))
	assert.Equal(t, "0", v.Get("tracking"))
	assert.Equal(t, "30", v.Get("tilt"))
	assert.Equal(t, "180", v.Get("azim"))
	assert.Equal(t, "json", v.Get("format"))
	assert.Equal(t, "false", v.Get("metadata"))
	assert.Equal(t, "false", v.Get("raw"))
	assert.False(t, v.Has("mean"))

	v = pv.Params(ProfileOptions{Raw: true, Mean: "day"})
	assert.Equal(t, "true", v.Get("raw"))
	assert.Equal(t, "day", v.Get("mean"))
}

func TestSystemLoss(t *testing.T) {
	assert.Equal(t, 25.0, systemLoss(0.75))
	assert.Equal(t, 10.0, systemLoss(0.9))
	assert.Equal(t, 0.0, systemLoss(1))
}

func TestPV_ProfileFromMockServer(t *testing.T) {
	mock := testutil.NewMockNinja()
	defer mock.Close()

	pv := newTestPV(t)
	g, err := client.New(client.DefaultConfig(credentials.NewPool([]string{"tok"})))
	require.NoError(t, err)
	defer g.Close()

	profile, err := pv.Profile(context.Background(), g, ProfileOptions{BaseURL: mock.URL()})
	require.NoError(t, err)

	assert.Equal(t, 3, profile.Len())
	assert.Equal(t, 0.0, profile.Min())
	assert.InDelta(t, 1.662, profile.Total(), 1e-9)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/data/pv", reqs[0].Path)
	assert.Equal(t, "34", reqs[0].Query.Get("lat"))
}
