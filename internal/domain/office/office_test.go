package office

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/office-hub/internal/domain/validation"
)

func TestOfficeValidate(t *testing.T) {
	tests := []struct {
		name     string
		office   Office
		expected validation.Reason
	}{
		{"Valid - single seat", Office{Name: "Vester Hassing", MaxOccupancy: 1}, ""},
		{"Valid - large office", Office{Name: "Aalborg", MaxOccupancy: 500}, ""},
		{"Invalid - zero capacity", Office{Name: "Aalborg", MaxOccupancy: 0}, validation.ReasonInvalidCapacity},
		{"Invalid - negative capacity", Office{Name: "Aalborg", MaxOccupancy: -3}, validation.ReasonInvalidCapacity},
		{"Invalid - empty name", Office{Name: "", MaxOccupancy: 5}, validation.ReasonEmptyName},
		{"Invalid - blank name", Office{Name: " \t ", MaxOccupancy: 5}, validation.ReasonEmptyName},
		{"Invalid - capacity checked before name", Office{Name: "", MaxOccupancy: 0}, validation.ReasonInvalidCapacity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.office.Validate()
			if tc.expected == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, validation.ErrValidation)
			reason, ok := validation.ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, reason)
		})
	}
}

func TestNew_TrimsName(t *testing.T) {
	o, err := New("  Vester Hassing ", 1)
	require.NoError(t, err)
	assert.Equal(t, "Vester Hassing", o.Name)
	assert.Equal(t, int32(1), o.MaxOccupancy)
	assert.Zero(t, o.ID)
}

func TestNew_Invalid(t *testing.T) {
	o, err := New("Aalborg", 0)
	assert.Nil(t, o)
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestHasRoomFor(t *testing.T) {
	o := Office{Name: "Aalborg", MaxOccupancy: 2}

	assert.True(t, o.HasRoomFor(0))
	assert.True(t, o.HasRoomFor(1))
	assert.False(t, o.HasRoomFor(2))
	assert.False(t, o.HasRoomFor(3))
}

func TestFits(t *testing.T) {
	o := Office{Name: "Aalborg", MaxOccupancy: 2}

	assert.True(t, o.Fits(2))
	assert.False(t, o.Fits(3))
}

func TestCapacityError(t *testing.T) {
	var err error = &CapacityError{Current: 1, Max: 1}

	assert.Equal(t, "office at capacity (1/1)", err.Error())
	assert.ErrorIs(t, err, ErrAtCapacity)

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, int64(1), capErr.Current)
	assert.Equal(t, int64(1), capErr.Max)
}

func TestOccupancyAvailable(t *testing.T) {
	assert.Equal(t, int64(3), Occupancy{Current: 2, Max: 5}.Available())
	assert.Equal(t, int64(0), Occupancy{Current: 5, Max: 5}.Available())
	assert.Equal(t, int64(0), Occupancy{Current: 7, Max: 5}.Available())
}
