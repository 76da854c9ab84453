package crabmix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

func crabConfig(cravings ...string) config.CrabConfig {
	return config.CrabConfig{
		Tolerance:       0.25,
		ContentPoints:   40,
		DelightedPoints: 80,
		Cravings:        cravings,
	}
}

func TestNewCrabErrors(t *testing.T) {
	_, err := NewCrab(crabConfig(), nil, 1)
	assert.ErrorIs(t, err, ErrNoCravings)

	_, err = NewCrab(crabConfig("chartreuse-ish"), nil, 1)
	assert.Error(t, err)
}

func TestFeedExactMatch(t *testing.T) {
	c, err := NewCrab(crabConfig("128,0,128"), nil, 1)
	require.NoError(t, err)

	f, ok := c.Feed(pigment.Of(pigment.RGB(128, 0, 128)))
	require.True(t, ok)
	assert.Equal(t, 100, f.Points)
	assert.Equal(t, MoodDelighted, f.Mood)
	assert.Equal(t, MoodDelighted, c.Mood())
	assert.Equal(t, 100, c.Score())
	assert.Equal(t, 1, c.Feedings())
}

func TestFeedFarColorScoresZero(t *testing.T) {
	c, err := NewCrab(crabConfig("128,0,128"), nil, 1)
	require.NoError(t, err)

	f, ok := c.Feed(pigment.Of(pigment.RGB(0, 255, 0)))
	require.True(t, ok)
	assert.Zero(t, f.Points)
	assert.Equal(t, MoodHungry, f.Mood)
	assert.Equal(t, 1, c.Feedings(), "a bad meal still counts")
}

func TestFeedAbsentIsRefused(t *testing.T) {
	c, err := NewCrab(crabConfig("red"), nil, 1)
	require.NoError(t, err)

	_, ok := c.Feed(pigment.None())
	assert.False(t, ok)
	assert.Zero(t, c.Feedings())
}

func TestCravingAvoidsRepeat(t *testing.T) {
	c, err := NewCrab(crabConfig("red", "blue"), nil, 3)
	require.NoError(t, err)

	changes := 0
	for range 10 {
		before := c.Craving()
		_, ok := c.Feed(pigment.Of(before))
		require.True(t, ok)
		if c.Craving() != before {
			changes++
		}
	}
	assert.Greater(t, changes, 5)
}

func TestPinHoldsCraving(t *testing.T) {
	c, err := NewCrab(crabConfig("red", "blue", "yellow"), nil, 5)
	require.NoError(t, err)

	c.Pin(pigment.White)
	c.Reset(9)
	for range 3 {
		c.Feed(pigment.Of(pigment.Red))
		assert.Equal(t, pigment.White, c.Craving())
	}
	assert.Equal(t, 3, c.Feedings())

	c.Unpin()
	assert.NotEqual(t, pigment.White, c.Craving())
}

func TestResetClearsScore(t *testing.T) {
	c, err := NewCrab(crabConfig("red"), nil, 1)
	require.NoError(t, err)
	c.Feed(pigment.Of(pigment.Red))
	require.Equal(t, 100, c.Score())

	c.Reset(2)
	assert.Zero(t, c.Score())
	assert.Zero(t, c.Feedings())
	assert.Equal(t, MoodHungry, c.Mood())
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		tolerance float64
		want      int
	}{
		{"exact", 0, 0.25, 100},
		{"halfway", 0.125, 0.25, 50},
		{"at tolerance", 0.25, 0.25, 0},
		{"beyond", 1, 0.25, 0},
		{"zero tolerance exact", 0, 0, 100},
		{"zero tolerance miss", 0.01, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, points(tc.distance, tc.tolerance))
		})
	}
}

func TestToleranceTightensWithScore(t *testing.T) {
	dm := config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:     true,
		Progression: config.ProgressionConfig{Type: "feedings", MaxAt: 2},
		Scaling:     config.ScalingConfig{ToleranceReduction: 0.5},
	})
	c, err := NewCrab(crabConfig("red"), dm, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, c.Tolerance(), 1e-9)
	c.Feed(pigment.Of(pigment.Red))
	c.Feed(pigment.Of(pigment.Red))
	assert.InDelta(t, 0.125, c.Tolerance(), 1e-9)
}
