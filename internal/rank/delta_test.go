package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDeltaSameDivision(t *testing.T) {
	prev := Snapshot{Tier: "GOLD", Division: "II", LeaguePoints: 40, Wins: 10, Losses: 8}
	cur := Snapshot{Tier: "GOLD", Division: "II", LeaguePoints: 55, Wins: 11, Losses: 8}

	d := ComputeDelta(prev, cur)
	require.Equal(t, 15, d.LPChange)
	require.False(t, d.TierChanged)
	require.False(t, d.DivisionChanged)
	require.False(t, d.Promoted)
	require.False(t, d.Demoted)
	require.Equal(t, 1, d.WinsDelta)
	require.Equal(t, 0, d.LossesDelta)
	require.True(t, d.Changed())
}

func TestComputeDeltaAcrossDivisionBoundary(t *testing.T) {
	prev := Snapshot{Tier: "GOLD", Division: "II", LeaguePoints: 95}
	cur := Snapshot{Tier: "GOLD", Division: "I", LeaguePoints: 10}

	d := ComputeDelta(prev, cur)
	require.Equal(t, 15, d.LPChange)
	require.False(t, d.TierChanged)
	require.True(t, d.DivisionChanged)
	require.True(t, d.Promoted)
}

func TestComputeDeltaAcrossTierBoundary(t *testing.T) {
	prev := Snapshot{Tier: "GOLD", Division: "I", LeaguePoints: 80}
	cur := Snapshot{Tier: "PLATINUM", Division: "IV", LeaguePoints: 5}

	d := ComputeDelta(prev, cur)
	require.Equal(t, 25, d.LPChange)
	require.True(t, d.TierChanged)
	require.True(t, d.DivisionChanged)
	require.True(t, d.Promoted)
}

func TestComputeDeltaDemotion(t *testing.T) {
	prev := Snapshot{Tier: "PLATINUM", Division: "IV", LeaguePoints: 0}
	cur := Snapshot{Tier: "GOLD", Division: "I", LeaguePoints: 75}

	d := ComputeDelta(prev, cur)
	require.Equal(t, -25, d.LPChange)
	require.True(t, d.TierChanged)
	require.True(t, d.Demoted)
	require.False(t, d.Promoted)
}

func TestComputeDeltaNoMovement(t *testing.T) {
	snap := Snapshot{Tier: "SILVER", Division: "III", LeaguePoints: 50, Wins: 5, Losses: 5}

	d := ComputeDelta(snap, snap)
	require.False(t, d.Changed())
	require.Zero(t, d.LPChange)
}

func TestSnapshotString(t *testing.T) {
	require.Equal(t, "GOLD II 40 LP", Snapshot{Tier: "GOLD", Division: "II", LeaguePoints: 40}.String())
	require.Equal(t, "Unranked", Snapshot{}.String())
}
