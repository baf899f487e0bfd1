package plant

import (
	"context"
	"testing"

	"github.com/Sternrassler/renewables-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestST(t *testing.T) *ST {
	t.Helper()

	cfg := DefaultSTConfig()
	cfg.ID = "test"
	cfg.Lat, cfg.Lon = 34.125, 39.814
	cfg.Area = 6

	st, err := NewST(cfg)
	require.NoError(t, err)
	return st
}

func TestNewST_Validation(t *testing.T) {
	_, err := NewST(STConfig{Efficiency: 0.9})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "area", cfgErr.Field)

	_, err = NewST(STConfig{Area: 6})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "efficiency", cfgErr.Field)
}

func TestST_AreaAndEnergy(t *testing.T) {
	st := newTestST(t)

	assert.Equal(t, KindST, st.Kind())
	assert.Equal(t, 6.0, st.Area())
	assert.InDelta(t, 1000*6*0.9, st.ComputeEnergy(1000), 1e-9)
}

func TestST_ParamsForceRaw(t *testing.T) {
	st := newTestST(t)

	v := st.Params(ProfileOptions{Raw: false})

	assert.Equal(t, "true", v.Get("raw"))
	assert.Equal(t, "1", v.Get("capacity"))
	assert.Equal(t, "10", v.Get("system_loss"))
	assert.Equal(t, "merra2", v.Get("dataset"))
	assert.Equal(t, "34", v.Get("lat"))
	assert.Equal(t, "39.5", v.Get("lon"))
}

func TestST_ProfileOutputFromIrradiance(t *testing.T) {
	g := &stubGetter{body: testutil.SampleRawPVBody}
	st := newTestST(t)

	profile, err := st.Profile(context.Background(), g, ProfileOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, profile.Len())

	assert.Equal(t, DefaultBaseURL+"data/pv", g.url)
	assert.Equal(t, 0.0, profile.Min())
	assert.InDelta(t, (0.2+0.1)*6, profile.Records[1].Output, 1e-9)
	assert.InDelta(t, (0.5+0.25)*6, profile.Max(), 1e-9)
}

func TestST_ProfileShortColumnNames(t *testing.T) {
	g := &stubGetter{body: `{"1388534400000": {"direct": 0.4, "diffuse": 0.1}}`}
	st := newTestST(t)

	profile, err := st.Profile(context.Background(), g, ProfileOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, profile.Total(), 1e-9)
}

func TestST_ProfileMissingColumns(t *testing.T) {
	g := &stubGetter{body: `{"1388534400000": {"electricity": 0.4}}`}
	st := newTestST(t)

	_, err := st.Profile(context.Background(), g, ProfileOptions{})
	assert.ErrorContains(t, err, "lacks irradiance columns")
}
