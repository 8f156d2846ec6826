package qf

import (
	"math"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/qfunding/syncutils"
)

// Project accumulates the contributions of a single recipient and derives its quadratic funding amount.
//
// The derived values (total, sum of square roots and matching amount) are cached and only refreshed by Recompute.
// IsStale reports whether the contribution list changed since the last call to Recompute.
type Project struct {
	id ProjectID

	// contributionList holds the cumulative amount per contributor.
	contributionList map[ContributorID]float64

	totalContribution          float64
	sumRootSquaredContribution float64
	matchingAmount             float64

	// finalAmount is the capital-constrained allocation written back by FundingRound.Finalize.
	finalAmount float64

	stale bool
	mutex syncutils.RWMutex
}

// NewProject creates a new Project without any contributions.
func NewProject(id ProjectID) *Project {
	return &Project{
		id:               id,
		contributionList: make(map[ContributorID]float64),
	}
}

// ID returns the identifier of the Project.
func (p *Project) ID() ProjectID {
	return p.id
}

// AddContribution adds the amount of the given Contribution to the entry of its contributor. Checking that the
// Contribution is addressed to this Project is the responsibility of the caller.
func (p *Project) AddContribution(contribution *Contribution) error {
	if err := contribution.Validate(); err != nil {
		return ierrors.Wrapf(err, "failed to add contribution to project %d", p.id)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	accumulated := p.contributionList[contribution.From] + contribution.Amount
	if math.IsInf(accumulated, 0) {
		return ierrors.Wrapf(ErrInvalidArgument, "contributions of %d to project %d overflow", contribution.From, p.id)
	}

	p.contributionList[contribution.From] = accumulated
	p.stale = true

	return nil
}

// Recompute derives the total contribution, the sum of the square roots of the contributions and the resulting
// matching amount from the current contribution list.
func (p *Project) Recompute() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.totalContribution = 0
	p.sumRootSquaredContribution = 0

	for _, amount := range p.contributionList {
		p.totalContribution += amount
		p.sumRootSquaredContribution += math.Sqrt(amount)
	}

	p.matchingAmount = p.sumRootSquaredContribution * p.sumRootSquaredContribution
	p.stale = false
}

// IsStale returns true if contributions were added since the last Recompute.
func (p *Project) IsStale() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.stale
}

// MatchingAmount returns the unconstrained quadratic funding amount as of the last Recompute.
func (p *Project) MatchingAmount() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.matchingAmount
}

// TotalContribution returns the sum of all contributions as of the last Recompute.
func (p *Project) TotalContribution() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.totalContribution
}

// SumRootSquaredContribution returns the sum of the square roots of the contributions as of the last Recompute.
func (p *Project) SumRootSquaredContribution() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.sumRootSquaredContribution
}

// FinalAmount returns the allocation that was assigned to the Project by the last FundingRound.Finalize.
func (p *Project) FinalAmount() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.finalAmount
}

// ContributionList returns a copy of the cumulative contributions per contributor.
func (p *Project) ContributionList() map[ContributorID]float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return lo.MergeMaps(make(map[ContributorID]float64, len(p.contributionList)), p.contributionList)
}

// ContributorCount returns the number of distinct contributors.
func (p *Project) ContributorCount() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return len(p.contributionList)
}

// String returns a human-readable version of the Project.
func (p *Project) String() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return stringify.Struct("Project",
		stringify.NewStructField("ID", uint32(p.id)),
		stringify.NewStructField("Contributors", len(p.contributionList)),
		stringify.NewStructField("TotalContribution", p.totalContribution),
		stringify.NewStructField("SumRootSquaredContribution", p.sumRootSquaredContribution),
		stringify.NewStructField("MatchingAmount", p.matchingAmount),
		stringify.NewStructField("FinalAmount", p.finalAmount),
		stringify.NewStructField("Stale", p.stale),
	)
}

func (p *Project) setFinalAmount(amount float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.finalAmount = amount
}
