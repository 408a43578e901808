package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	p, err := config.Load("testdata/extraction.yaml")
	require.NoError(t, err)

	assert.Equal(t, "rna-extraction", p.Name)
	assert.True(t, p.Simulate)
	require.Len(t, p.Reagents, 2)

	beads := p.Reagents[0]
	assert.Equal(t, 1500.0, beads.TotalVolume, "yaml ints feed float fields")
	assert.Equal(t, []string{"A1", "A2", "A3", "A4"}, beads.Wells)
	assert.Equal(t, 63.61, beads.Geometry.CrossSectionArea)
	assert.True(t, beads.Rinse)
	assert.Equal(t, 0.5, beads.MinHeight, "protocol default fills an unset reagent floor")

	ethanol := p.Reagents[1]
	assert.Equal(t, 1.0, ethanol.MinHeight, "reagent floor wins over the default")
	assert.Equal(t, 100.0, ethanol.ReserveBuffer)

	require.Len(t, p.Pools, 1)
	assert.Equal(t, 8, p.Pools[0].EffectiveCapacity())

	require.Len(t, p.Steps, 6)
	assert.Equal(t, "tips300", p.Steps[0].Pool, "default pool fills tip steps")
	assert.Equal(t, "tips300", p.Steps[3].Pool)
	assert.Equal(t, "", p.Steps[1].Pool)
	assert.Equal(t, 2, p.Steps[1].Times())
	assert.Equal(t, 1, p.Steps[2].Times())
	assert.Equal(t, "bead transfer", p.Steps[0].Label(0))
	assert.Equal(t, "aspirate#1", p.Steps[1].Label(1))
	assert.Equal(t, config.DefaultPrimeCycles, p.Defaults.PrimeCycles)
}

func TestLoad_JSON(t *testing.T) {
	p, err := config.Load("testdata/pcr.json")
	require.NoError(t, err)

	assert.Equal(t, "pcr-setup", p.Name)
	require.Len(t, p.Steps, 3)
	require.NotNil(t, p.Steps[1].MinHeight)
	assert.Equal(t, 0.2, *p.Steps[1].MinHeight)
	assert.Nil(t, p.Steps[1].ReserveBuffer)

	spec, ok := p.Pool("tips20")
	require.True(t, ok)
	assert.Equal(t, 96, spec.Capacity)

	_, ok = p.Reagent("Water")
	assert.False(t, ok)
}

func TestLoad_NameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station-c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: []\n"), 0644))

	p, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "station-c", p.Name)
}

func TestLoad_Overrides(t *testing.T) {
	p, err := config.Load("testdata/extraction.yaml",
		"simulate=false",
		"reagents.0.total_volume=1400",
		"reagents.1.height_policy=subtract_cone_height",
		"defaults.reserve_buffer=25",
		"steps.1.repeat=3",
	)
	require.NoError(t, err)

	assert.False(t, p.Simulate)
	assert.Equal(t, 1400.0, p.Reagents[0].TotalVolume)
	assert.Equal(t, domain.PolicySubtractConeHeight, p.Reagents[1].HeightPolicy)
	assert.Equal(t, 25.0, p.Reagents[0].ReserveBuffer)
	assert.Equal(t, 3, p.Steps[1].Times())
}

func TestLoad_BadInput(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		contains  string
	}{
		{"missing equals", []string{"simulate"}, "expected key=value"},
		{"index out of range", []string{"reagents.7.total_volume=1"}, "not an index"},
		{"scalar as section", []string{"name.first=x"}, "not a section"},
		{"type mismatch", []string{"reagents.0.well_count=many"}, "invalid protocol"},
		{"unknown field", []string{"reagents.0.colour=red"}, "colour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load("testdata/extraction.yaml", tt.overrides...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	_, err := config.Load("testdata/absent.yaml")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Parse([]byte("{"), ".json")
	require.Error(t, err)
}

func TestValidate_Valid(t *testing.T) {
	p, err := config.Load("testdata/extraction.yaml")
	require.NoError(t, err)

	warnings, err := config.Validate(p)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Ethanol: cone_height 2 is ignored")
}

func TestValidate_PolicySilencesWarning(t *testing.T) {
	p, err := config.Load("testdata/extraction.yaml", "reagents.1.height_policy=volume_only")
	require.NoError(t, err)

	warnings, err := config.Validate(p)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidate_TipDemandWarning(t *testing.T) {
	p, err := config.Load("testdata/extraction.yaml", "steps.0.repeat=9", "reagents.1.height_policy=volume_only")
	require.NoError(t, err)

	warnings, err := config.Validate(p)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "picks 9 tips from 8 loaded")
}

func TestValidate_Errors(t *testing.T) {
	data := []byte(`
reagents:
  - name: Beads
    total_volume: 400
    well_count: 2
    geometry: {cross_section_area: 10}
  - name: Beads
    total_volume: 400
    well_count: 2
    geometry: {cross_section_area: 10}
  - name: Flat
    total_volume: 100
    well_count: 1
    geometry: {cross_section_area: 0}
pools:
  - name: tips
steps:
  - action: pick_tip
  - {action: aspirate, reagent: Beads, volume: 250}
  - {action: aspirate, reagent: Beads, volume: 150, repeat: 3}
  - {action: aspirate, reagent: Water, volume: 10}
  - {action: mix, volume: 50}
  - {action: delay}
  - {action: shake}
`)
	p, err := config.Parse(data, ".yaml")
	require.NoError(t, err)

	_, err = config.Validate(p)
	require.Error(t, err)

	var keys []string
	for _, e := range config.ValidationErrors(err) {
		var ve *config.ValidationError
		require.ErrorAs(t, e, &ve)
		keys = append(keys, ve.Key)
	}
	assert.ElementsMatch(t, []string{
		"name",
		"reagents[1].name",
		"reagents[2]",
		"pools[0]",
		"steps[0].pool",
		"steps[1].volume",
		"steps[3].reagent",
		"steps[4].cycles",
		"steps[5].seconds",
		"steps[6].action",
		"reagents.Beads",
	}, keys)
	assert.Contains(t, err.Error(), "validation errors")
}

func TestValidate_NonFiniteValues(t *testing.T) {
	data := []byte(`
name: nan-station
reagents:
  - name: Beads
    total_volume: 400
    well_count: 2
    geometry: {cross_section_area: .nan}
  - name: Ethanol
    total_volume: .inf
    well_count: 2
    geometry: {cross_section_area: 10}
  - name: Water
    total_volume: 400
    well_count: 2
    geometry: {cross_section_area: 10, cone_volume: .nan}
  - name: Buffer
    total_volume: 400
    well_count: 2
    geometry: {cross_section_area: 10}
steps:
  - {action: aspirate, reagent: Buffer, volume: 10, min_height: .nan}
  - {action: aspirate, reagent: Buffer, volume: 10, reserve_buffer: .inf}
  - {action: aspirate, reagent: Buffer, volume: .nan}
  - {action: dispense, target: plate, volume: .inf}
  - {action: mix, target: plate, volume: .nan, cycles: 2}
  - {action: delay, seconds: .nan}
`)
	p, err := config.Parse(data, ".yaml")
	require.NoError(t, err)

	_, err = config.Validate(p)
	require.Error(t, err)

	var keys []string
	for _, e := range config.ValidationErrors(err) {
		var ve *config.ValidationError
		require.ErrorAs(t, e, &ve)
		keys = append(keys, ve.Key)
	}
	assert.ElementsMatch(t, []string{
		"reagents[0]",
		"reagents[1]",
		"reagents[2]",
		"steps[0].min_height",
		"steps[1].reserve_buffer",
		"steps[2].volume",
		"steps[3].volume",
		"steps[4].volume",
		"steps[5].seconds",
	}, keys)
}

func TestParse_ExplicitZeroKeepsOverDefaults(t *testing.T) {
	data := []byte(`
defaults:
  min_height: 0.5
  reserve_buffer: 20
reagents:
  - name: Beads
    total_volume: 400
    well_count: 1
    min_height: 0
    reserve_buffer: 0
    geometry: {cross_section_area: 10}
  - name: Water
    total_volume: 400
    well_count: 1
    geometry: {cross_section_area: 10}
`)
	p, err := config.Parse(data, ".yaml")
	require.NoError(t, err)
	require.Len(t, p.Reagents, 2)

	assert.Equal(t, 0.0, p.Reagents[0].MinHeight, "an explicit zero floor is kept")
	assert.Equal(t, 0.0, p.Reagents[0].ReserveBuffer)
	assert.Equal(t, 0.5, p.Reagents[1].MinHeight)
	assert.Equal(t, 20.0, p.Reagents[1].ReserveBuffer)

	p, err = config.Parse(data, ".yaml", "reagents.1.min_height=0", "defaults.reserve_buffer=5")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Reagents[1].MinHeight, "an override zero is kept too")
	assert.Equal(t, 5.0, p.Reagents[1].ReserveBuffer)
	assert.Equal(t, 0.0, p.Reagents[0].ReserveBuffer)
}
