package formula

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"minerva/pkg/errors"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercase", "Year", "year"},
		{"spaces and units", "mass (g)", "mass_g"},
		{"already canonical", "mass_g", "mass_g"},
		{"percent sign", "fall %", "fall_percent"},
		{"apostrophe dropped", "GeoLocation's", "geolocations"},
		{"mixed punctuation", "Rec-Lat / Long", "rec_lat_long"},
		{"leading and trailing junk", "  (id)  ", "id"},
		{"repeated separators", "a -- b", "a_b"},
		{"empty", "", ""},
		{"only junk", "()!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Mass (g)", "reclat", "fall %", "'quoted'", "  Weird -- Name!  ", "", "名前",
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", raw)
	}
}

func TestNormalize_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
	inputs := []string{
		"Mass (g)", "Year", "fall %", "a__b", "_x_", "GeoLocation (lat, long)",
	}
	for _, raw := range inputs {
		got := Normalize(raw)
		if got == "" {
			continue
		}
		assert.Regexp(t, shape, got, "canonical form of %q", raw)
	}
}

func TestNewColumnMap_FirstOccurrenceWins(t *testing.T) {
	cm := NewColumnMap([]string{"Mass (g)", "mass_g", "year"})

	raw, ok := cm.Resolve("mass_g")
	assert.True(t, ok)
	assert.Equal(t, "Mass (g)", raw)
	assert.Equal(t, 2, cm.Len())

	collisions := cm.Collisions()
	assert.Len(t, collisions, 1)
	assert.Equal(t, "mass_g", collisions[0].Canonical)
	assert.Equal(t, "Mass (g)", collisions[0].Kept)
	assert.Equal(t, "mass_g", collisions[0].Dropped)

	err := collisions[0].Err()
	assert.True(t, errors.Is(err, errors.ErrAmbiguousColumn))
	assert.Contains(t, err.Error(), "Mass (g)")
	assert.Contains(t, err.Error(), "mass_g")
}

func TestNewColumnMap_Resolve(t *testing.T) {
	cm := NewColumnMap([]string{"recclass", "mass (g)", "Year"})

	raw, ok := cm.Resolve("mass_g")
	assert.True(t, ok)
	assert.Equal(t, "mass (g)", raw)

	raw, ok = cm.Resolve("year")
	assert.True(t, ok)
	assert.Equal(t, "Year", raw)

	_, ok = cm.Resolve("nope")
	assert.False(t, ok)
}
