package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// 2024-03-01 01:30 in Shanghai is still 2024-02-29 in UTC
	local := time.Date(2024, 3, 1, 1, 30, 0, 0, shanghai)
	got := DateOf(local)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, SameDate(got, local))
	assert.False(t, SameDate(got, local.UTC()))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDate(a, a.Add(23*time.Hour)))
	assert.False(t, SameDate(a, a.Add(24*time.Hour)))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", " "))
}
