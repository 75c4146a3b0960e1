package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolarSchema(t *testing.T) {
	s := Solar()
	assert.NoError(t, s.Check())
	assert.Equal(t, []string{"GHI", "DNI", "DHI"}, s.MetricKeys())
	assert.Equal(t, "country", s.LabelColumn)
	assert.Equal(t, "W/m²", s.Unit())

	m, ok := s.Metric("DNI")
	assert.True(t, ok)
	assert.Equal(t, "Direct Normal Irradiance", m.DisplayName)

	_, ok = s.Metric("ghi")
	assert.False(t, ok, "metric lookup is case-sensitive")
}

func TestValidateHeader(t *testing.T) {
	s := Solar()

	assert.NoError(t, s.Validate([]string{"Timestamp", "GHI", "DNI", "DHI", "Tamb"}))
	assert.Equal(t, []string{"DNI"}, s.MissingColumns([]string{"GHI", "DHI"}))
	assert.EqualError(t, s.Validate([]string{"GHI", "dni", "DHI"}), "missing metric columns DNI")
	assert.EqualError(t, s.Validate([]string{"GHI", "DNI", "DHI", "country"}),
		`column "country" is reserved for the source label`)
	assert.EqualError(t, s.Validate([]string{"GHI", "DNI", "DHI", "RH", "RH"}), `duplicate column "RH"`)
}

func TestCheckRejectsBrokenSchemas(t *testing.T) {
	cases := map[string]Config{
		"no label":     {Name: "x", Metrics: []MetricMeta{DefaultMetric("GHI")}},
		"no metrics":   {Name: "x", LabelColumn: "country"},
		"duplicate":    {Name: "x", LabelColumn: "country", Metrics: []MetricMeta{DefaultMetric("GHI"), DefaultMetric("GHI")}},
		"label metric": {Name: "x", LabelColumn: "GHI", Metrics: []MetricMeta{DefaultMetric("GHI")}},
		"empty key":    {Name: "x", LabelColumn: "country", Metrics: []MetricMeta{DefaultMetric("")}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Check())
		})
	}
}

func TestUnitMixed(t *testing.T) {
	s := Solar()
	s.Metrics = append(s.Metrics, MetricMeta{Key: "Tamb", Unit: "°C"})
	assert.Equal(t, "", s.Unit())
}
