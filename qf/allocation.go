package qf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/stringify"
)

// AllocationDigestLength is the length of an AllocationDigest.
const AllocationDigestLength = blake2b.Size256

// AllocationDigest is a hash over the canonical encoding of an Allocation. Two allocations over the same projects,
// amounts and matching pool have the same digest.
type AllocationDigest [AllocationDigestLength]byte

// String returns the base58 encoded digest.
func (d AllocationDigest) String() string {
	return base58.Encode(d[:])
}

// Allocation is the result of a capital-constrained quadratic funding computation. It maps each Project to the
// amount of the matching pool it receives.
type Allocation struct {
	amounts       *treemap.Map
	matchingPool  float64
	idealTotal    float64
	scalingFactor float64
}

// newAllocation applies the capital constraint to the given ideal amounts. If the ideal amounts exceed the matching
// pool, all of them are scaled by the same factor so that they sum up to the matching pool.
func newAllocation(idealAmounts map[ProjectID]float64, matchingPool float64) *Allocation {
	a := &Allocation{
		amounts:       treemap.NewWith(projectIDComparator),
		matchingPool:  matchingPool,
		scalingFactor: 1,
	}

	for projectID, idealAmount := range idealAmounts {
		a.amounts.Put(projectID, idealAmount)
	}

	// summing in ascending id order keeps the result independent of map iteration order
	a.amounts.Each(func(_ interface{}, value interface{}) {
		a.idealTotal += value.(float64)
	})

	if a.idealTotal <= matchingPool {
		return a
	}

	a.scalingFactor = matchingPool / a.idealTotal
	for _, projectID := range a.amounts.Keys() {
		idealAmount, _ := a.amounts.Get(projectID)
		a.amounts.Put(projectID, idealAmount.(float64)*a.scalingFactor)
	}

	return a
}

// Amount returns the amount allocated to the given Project.
func (a *Allocation) Amount(projectID ProjectID) (amount float64, exists bool) {
	value, exists := a.amounts.Get(projectID)
	if !exists {
		return 0, false
	}

	return value.(float64), true
}

// Amounts returns a copy of the allocated amounts.
func (a *Allocation) Amounts() map[ProjectID]float64 {
	amounts := make(map[ProjectID]float64, a.amounts.Size())
	a.ForEach(func(projectID ProjectID, amount float64) bool {
		amounts[projectID] = amount

		return true
	})

	return amounts
}

// ForEach iterates over the allocated amounts in ascending order of the project ids. Returning false from the
// callback aborts the iteration.
func (a *Allocation) ForEach(callback func(projectID ProjectID, amount float64) bool) {
	it := a.amounts.Iterator()
	for it.Next() {
		if !callback(it.Key().(ProjectID), it.Value().(float64)) {
			return
		}
	}
}

// Size returns the number of projects in the Allocation.
func (a *Allocation) Size() int {
	return a.amounts.Size()
}

// Total returns the sum of all allocated amounts.
func (a *Allocation) Total() (total float64) {
	a.ForEach(func(_ ProjectID, amount float64) bool {
		total += amount

		return true
	})

	return total
}

// MatchingPool returns the matching pool the Allocation was computed for.
func (a *Allocation) MatchingPool() float64 {
	return a.matchingPool
}

// IdealTotal returns the sum of the unconstrained quadratic funding amounts.
func (a *Allocation) IdealTotal() float64 {
	return a.idealTotal
}

// ScalingFactor returns the factor that was applied to the ideal amounts (1 if the matching pool was sufficient).
func (a *Allocation) ScalingFactor() float64 {
	return a.scalingFactor
}

// Constrained returns true if the ideal amounts exceeded the matching pool and had to be scaled down.
func (a *Allocation) Constrained() bool {
	return a.idealTotal > a.matchingPool
}

// Bytes returns the canonical encoding of the Allocation: the matching pool followed by every project id and amount
// in ascending id order.
func (a *Allocation) Bytes() []byte {
	bytes := make([]byte, 0, 8+a.amounts.Size()*12)
	bytes = binary.BigEndian.AppendUint64(bytes, math.Float64bits(a.matchingPool))

	a.ForEach(func(projectID ProjectID, amount float64) bool {
		bytes = binary.BigEndian.AppendUint32(bytes, uint32(projectID))
		bytes = binary.BigEndian.AppendUint64(bytes, math.Float64bits(amount))

		return true
	})

	return bytes
}

// Digest returns the blake2b hash of the canonical encoding.
func (a *Allocation) Digest() AllocationDigest {
	return blake2b.Sum256(a.Bytes())
}

// String returns a human-readable version of the Allocation.
func (a *Allocation) String() string {
	return stringify.Struct("Allocation",
		stringify.NewStructField("MatchingPool", a.matchingPool),
		stringify.NewStructField("IdealTotal", a.idealTotal),
		stringify.NewStructField("ScalingFactor", a.scalingFactor),
		stringify.NewStructField("Amounts", fmt.Sprint(a.Amounts())),
	)
}

func projectIDComparator(a, b interface{}) int {
	return utils.UInt32Comparator(uint32(a.(ProjectID)), uint32(b.(ProjectID)))
}
