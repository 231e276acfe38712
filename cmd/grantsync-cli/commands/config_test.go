package commands

import (
	"grantsync-backend/internal/components/chrono"
	"grantsync-backend/lib/grantparse"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := readConfig()
	require.NoError(t, err)
	require.Equal(t, "https://oursggrants.gov.sg", cfg.BaseUrl)
	require.Equal(t, "grants.json", cfg.Output)
	require.Equal(t, "grants.db", cfg.Database.Path)
	require.Equal(t, 0.5, cfg.Delay.MinSeconds)
	require.Equal(t, 2.0, cfg.Delay.MaxSeconds)
	require.False(t, cfg.CloudflareBypass)
}

func TestDelayBuild(t *testing.T) {
	delay, err := DelayConfig{MinSeconds: 0.5, MaxSeconds: 2}.build(1)
	require.NoError(t, err)
	random, ok := delay.(chrono.RandomDelay)
	require.True(t, ok)
	for i := 0; i < 100; i++ {
		next := random.Next()
		require.GreaterOrEqual(t, next, 500*time.Millisecond)
		require.LessOrEqual(t, next, 2*time.Second)
	}

	delay, err = DelayConfig{RequestsPerSecond: 2}.build(1)
	require.NoError(t, err)
	require.IsType(t, chrono.LimiterDelay{}, delay)

	_, err = DelayConfig{MinSeconds: 3, MaxSeconds: 1}.build(1)
	require.Error(t, err)
}

func TestFormatRange(t *testing.T) {
	min := int64(100)
	max := int64(5000)
	require.Equal(t, "$100 - $5000", formatRange(grantparse.AmountRange{Min: &min, Max: &max}))
	require.Equal(t, "$5000", formatRange(grantparse.AmountRange{Max: &max}))
	require.Equal(t, "$100", formatRange(grantparse.AmountRange{Min: &min, Max: &min}))
	require.Equal(t, "-", formatRange(grantparse.AmountRange{}))
	require.Equal(t, "-", formatDate(nil))
}
