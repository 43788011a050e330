package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("TECHNOLOGY")
	require.True(t, ok)
	assert.Equal(t, CategoryTechnology, c)

	_, ok = ParseCategory("technology")
	assert.False(t, ok, "match is exact")

	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestParseSimilarityMode(t *testing.T) {
	tests := []struct {
		in     string
		want   SimilarityMode
		wantOK bool
	}{
		{"category", SimilarByCategory, true},
		{"LOCATION", SimilarByLocation, true},
		{" date ", SimilarByDate, true},
		{"distance", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSimilarityMode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvent_SetCoordinates(t *testing.T) {
	e := &Event{}
	assert.False(t, e.HasCoordinates())

	e.SetCoordinates(Coordinates{Latitude: 40.71277612, Longitude: -74.00597449})
	require.True(t, e.HasCoordinates())
	assert.Equal(t, 40.712776, *e.Latitude)
	assert.Equal(t, -74.005974, *e.Longitude)
}

func TestUser_IsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
