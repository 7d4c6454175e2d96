package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, uint16(8085), cfg.HttpServerPort)
	require.Equal(t, 5*time.Minute, cfg.RoomTTL)
	require.Equal(t, 5*time.Second, cfg.SweepInterval)
	require.Equal(t, 2, cfg.RoomMaxMembers)
	require.Equal(t, 16, cfg.RoomCodeMaxLen)
	require.Equal(t, int64(32768), cfg.WsReadLimit)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "9090")
	t.Setenv("ROOM_TTL", "90s")
	t.Setenv("SWEEP_INTERVAL", "1500ms")
	t.Setenv("ROOM_MAX_MEMBERS", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, uint16(9090), cfg.HttpServerPort)
	require.Equal(t, 90*time.Second, cfg.RoomTTL)
	require.Equal(t, 1500*time.Millisecond, cfg.SweepInterval)
	require.Equal(t, 4, cfg.RoomMaxMembers)
}

func TestValidation(t *testing.T) {
	t.Run("sweep interval must stay below TTL", func(t *testing.T) {
		t.Setenv("ROOM_TTL", "2s")
		t.Setenv("SWEEP_INTERVAL", "10s")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("member cap is bounded", func(t *testing.T) {
		t.Setenv("ROOM_MAX_MEMBERS", "100")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("single-member rooms are not a call", func(t *testing.T) {
		t.Setenv("ROOM_MAX_MEMBERS", "1")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}
