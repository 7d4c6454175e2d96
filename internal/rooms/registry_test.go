package rooms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryClaimRelease(t *testing.T) {
	rg := NewRegistry()

	require.NoError(t, rg.Claim("conn-a", "AB12"))
	require.ErrorIs(t, rg.Claim("conn-a", "CD34"), ErrAlreadyInRoom)
	require.ErrorIs(t, rg.Claim("conn-a", "AB12"), ErrAlreadyInRoom)

	code, ok := rg.RoomOf("conn-a")
	require.True(t, ok)
	require.Equal(t, "AB12", code)
	require.Equal(t, 1, rg.Len())

	code, ok = rg.Release("conn-a")
	require.True(t, ok)
	require.Equal(t, "AB12", code)

	_, ok = rg.Release("conn-a")
	require.False(t, ok)
	require.Zero(t, rg.Len())
}

func TestRegistryReleaseIf(t *testing.T) {
	rg := NewRegistry()

	require.NoError(t, rg.Claim("conn-a", "AB12"))

	// wrong code leaves the mapping alone
	rg.ReleaseIf("conn-a", "CD34")
	_, ok := rg.RoomOf("conn-a")
	require.True(t, ok)

	rg.ReleaseIf("conn-a", "AB12")
	_, ok = rg.RoomOf("conn-a")
	require.False(t, ok)

	// unmapped connection: no-op
	rg.ReleaseIf("conn-a", "AB12")
}
