package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, "29/02/2024", d.Display())
	assert.Equal(t, 2024, d.Year())

	d, err = ParseDate("2024-03-01T23:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.Equal(t, 0, d.Year())

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)
}

func TestDate_DaysUntil(t *testing.T) {
	a := MustParseDate("2024-03-01")
	b := MustParseDate("2024-04-01")
	assert.Equal(t, 31, a.DaysUntil(b))
	assert.Equal(t, -31, b.DaysUntil(a))
	assert.True(t, a.Before(b))
	assert.True(t, a.AddDays(31).Equal(b))
}

func TestDateOf_UsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	d := DateOf(time.Date(2024, 3, 1, 1, 0, 0, 0, loc))
	assert.Equal(t, "2024-03-01", d.String())
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	out, err := json.Marshal(wrapper{D: MustParseDate("2024-01-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-01-10"}`, string(out))

	out, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":""}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &w))
	assert.True(t, w.D.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-01-10T08:00:00Z"}`), &w))
	assert.Equal(t, MustParseDate("2024-01-10"), w.D)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"soon"}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"d":5}`), &w))
}
