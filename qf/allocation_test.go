package qf

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestAllocation_PoolSufficient(t *testing.T) {
	allocation := newAllocation(map[ProjectID]float64{0: 25, 1: 36}, 100)

	require.Equal(t, map[ProjectID]float64{0: 25, 1: 36}, allocation.Amounts())
	require.Equal(t, 61.0, allocation.IdealTotal())
	require.Equal(t, 61.0, allocation.Total())
	require.Equal(t, 1.0, allocation.ScalingFactor())
	require.False(t, allocation.Constrained())
}

func TestAllocation_PoolExactlyCovers(t *testing.T) {
	allocation := newAllocation(map[ProjectID]float64{0: 25, 1: 36}, 61)

	require.Equal(t, map[ProjectID]float64{0: 25, 1: 36}, allocation.Amounts())
	require.False(t, allocation.Constrained())
}

func TestAllocation_PoolInsufficient(t *testing.T) {
	allocation := newAllocation(map[ProjectID]float64{0: 25, 1: 36}, 10)

	amount0, exists := allocation.Amount(0)
	require.True(t, exists)
	require.InDelta(t, 25*10/61.0, amount0, 1e-12)

	amount1, exists := allocation.Amount(1)
	require.True(t, exists)
	require.InDelta(t, 36*10/61.0, amount1, 1e-12)

	require.InDelta(t, 10, allocation.Total(), 1e-12)
	require.InDelta(t, 10/61.0, allocation.ScalingFactor(), 1e-12)
	require.True(t, allocation.Constrained())

	// relative shares are preserved
	require.InDelta(t, 25/36.0, amount0/amount1, 1e-12)
}

func TestAllocation_NoContributions(t *testing.T) {
	allocation := newAllocation(map[ProjectID]float64{0: 0, 1: 0}, 10)

	require.Equal(t, map[ProjectID]float64{0: 0, 1: 0}, allocation.Amounts())
	require.Zero(t, allocation.Total())
	require.Equal(t, 1.0, allocation.ScalingFactor())

	empty := newAllocation(map[ProjectID]float64{}, 10)
	require.Zero(t, empty.Size())
	require.Empty(t, empty.Amounts())

	_, exists := empty.Amount(0)
	require.False(t, exists)
}

func TestAllocation_ForEachOrder(t *testing.T) {
	allocation := newAllocation(map[ProjectID]float64{9: 1, 2: 1, 5: 1, 0: 1}, 100)

	projectIDs := make([]ProjectID, 0)
	allocation.ForEach(func(projectID ProjectID, _ float64) bool {
		projectIDs = append(projectIDs, projectID)

		return true
	})
	require.Equal(t, []ProjectID{0, 2, 5, 9}, projectIDs)

	projectIDs = projectIDs[:0]
	allocation.ForEach(func(projectID ProjectID, _ float64) bool {
		projectIDs = append(projectIDs, projectID)

		return len(projectIDs) < 2
	})
	require.Equal(t, []ProjectID{0, 2}, projectIDs)
}

func TestAllocation_Digest(t *testing.T) {
	allocation1 := newAllocation(map[ProjectID]float64{0: 25, 1: 36}, 10)
	allocation2 := newAllocation(map[ProjectID]float64{1: 36, 0: 25}, 10)
	allocation3 := newAllocation(map[ProjectID]float64{0: 25, 1: 36}, 11)

	require.Equal(t, allocation1.Digest(), allocation2.Digest())
	require.NotEqual(t, allocation1.Digest(), allocation3.Digest())
	require.Len(t, allocation1.Bytes(), 8+2*12)

	digest := allocation1.Digest()
	decoded, err := base58.Decode(digest.String())
	require.NoError(t, err)
	require.Equal(t, digest[:], decoded)
}
