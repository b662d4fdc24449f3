package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snek-arcade/game"
)

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(options{variant: "Enhanced"})
	require.NoError(t, err)
	assert.Equal(t, game.DefaultConfig(game.VariantEnhanced), cfg)

	cfg, err = buildConfig(options{variant: "basic", width: 200, height: 100, unit: 20, rate: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.Cols())
	assert.Equal(t, int32(5), cfg.Rows())
	assert.Equal(t, 20, cfg.TickRateHz)

	_, err = buildConfig(options{variant: "hexagonal"})
	assert.Error(t, err)

	_, err = buildConfig(options{variant: "basic", width: 20})
	assert.ErrorIs(t, err, game.ErrGridTooSmall)

	_, err = buildConfig(options{variant: "basic", rate: 99})
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SNAKE_TEST_STR", "x")
	t.Setenv("SNAKE_TEST_INT", "42")
	t.Setenv("SNAKE_TEST_BAD", "abc")
	t.Setenv("SNAKE_TEST_BOOL", "yes")

	assert.Equal(t, "x", getEnvOrDefault("SNAKE_TEST_STR", "d"))
	assert.Equal(t, "d", getEnvOrDefault("SNAKE_TEST_MISSING", "d"))
	assert.Equal(t, 42, getEnvIntOrDefault("SNAKE_TEST_INT", 1))
	assert.Equal(t, 1, getEnvIntOrDefault("SNAKE_TEST_BAD", 1))
	assert.True(t, getEnvBoolOrDefault("SNAKE_TEST_BOOL", false))
	assert.False(t, getEnvBoolOrDefault("SNAKE_TEST_MISSING", false))
}
