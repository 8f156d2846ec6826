package qf

import (
	"math"
	"sort"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/iotaledger/qfunding/logger"
	"github.com/iotaledger/qfunding/syncutils"
	"github.com/iotaledger/qfunding/workerpool"
)

// FundingRound owns a set of Projects and the matching pool that is distributed among them.
//
// The expected call sequence is AddProject* -> AddContribution* -> RecomputeAll -> ComputeCQFAllocation. The
// allocation is computed from the cached matching amounts of the projects, so RecomputeAll has to run after the last
// contribution was added.
type FundingRound struct {
	// Events contains all events of the FundingRound.
	Events *Events

	projects *shrinkingmap.ShrinkingMap[ProjectID, *Project]

	// matchingPool is zero until it was set.
	matchingPool float64

	optsWorkerPool *workerpool.WorkerPool
	optsLogger     *logger.Logger

	mutex syncutils.RWMutex

	*logger.WrappedLogger
}

// NewFundingRound creates a new FundingRound without projects and with an unset matching pool.
func NewFundingRound(opts ...options.Option[FundingRound]) *FundingRound {
	return options.Apply(&FundingRound{
		Events:   NewEvents(),
		projects: shrinkingmap.New[ProjectID, *Project](),
	}, opts, func(f *FundingRound) {
		f.WrappedLogger = logger.NewWrappedLogger(f.optsLogger)
	})
}

// SetMatchingPool sets the budget that is distributed among the projects. The amount has to be strictly positive.
func (f *FundingRound) SetMatchingPool(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ierrors.Wrapf(ErrInvalidArgument, "matching pool must be a positive number, got %v", amount)
	}

	f.mutex.Lock()
	f.matchingPool = amount
	f.mutex.Unlock()

	f.LogDebugf("matching pool set to %v", amount)
	f.Events.MatchingPoolUpdated.Trigger(amount)

	return nil
}

// MatchingPool returns the matching pool (zero if it was not set yet).
func (f *FundingRound) MatchingPool() float64 {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.matchingPool
}

// AddProject registers a Project with the FundingRound. Registering an id twice fails with ErrDuplicateKey and
// leaves the existing Project untouched.
func (f *FundingRound) AddProject(project *Project) error {
	if err := f.addProject(project); err != nil {
		return err
	}

	f.Events.ProjectAdded.Trigger(project)

	return nil
}

func (f *FundingRound) addProject(project *Project) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.projects.Has(project.ID()) {
		return ierrors.Wrapf(ErrDuplicateKey, "project %d is already registered", project.ID())
	}

	f.projects.Set(project.ID(), project)

	return nil
}

// Project returns the registered Project with the given id.
func (f *FundingRound) Project(id ProjectID) (project *Project, exists bool) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.projects.Get(id)
}

// ProjectIDs returns the ids of all registered projects in ascending order.
func (f *FundingRound) ProjectIDs() []ProjectID {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	projectIDs := lo.Keys(f.projects.AsMap())
	sort.Slice(projectIDs, func(i, j int) bool { return projectIDs[i] < projectIDs[j] })

	return projectIDs
}

// ProjectCount returns the number of registered projects.
func (f *FundingRound) ProjectCount() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.projects.Size()
}

// AddContribution routes the Contribution into the Project it is addressed to. It fails with ErrNotFound if the
// Project is not registered and with ErrInvalidArgument if the amount is negative or not finite. In both cases no
// Project is modified.
func (f *FundingRound) AddContribution(contribution *Contribution) error {
	project, exists := f.Project(contribution.To)
	if !exists {
		return ierrors.Wrapf(ErrNotFound, "contribution from %d targets unregistered project %d", contribution.From, contribution.To)
	}

	if err := project.AddContribution(contribution); err != nil {
		return err
	}

	f.Events.ContributionAdded.Trigger(contribution)

	return nil
}

// RecomputeAll refreshes the derived values of all projects. If a worker pool was configured the projects are
// recomputed concurrently and the call returns once all of them are done.
func (f *FundingRound) RecomputeAll() {
	projects := f.projectsSnapshot()

	if f.optsWorkerPool == nil || !f.optsWorkerPool.IsRunning() {
		lo.ForEach(projects, (*Project).Recompute)
	} else {
		group := f.optsWorkerPool.NewGroup()
		lo.ForEach(projects, func(project *Project) { group.Submit(project.Recompute) })

		// projects that could not be submitted are recomputed on the calling goroutine
		if err := group.Wait(); err != nil {
			f.LogWarnf("falling back to sequential recompute: %s", err)

			lo.ForEach(lo.Filter(projects, (*Project).IsStale), (*Project).Recompute)
		}
	}

	f.LogDebugw("recomputed projects", "count", len(projects))
}

// ComputeCQFAllocation computes the capital-constrained quadratic funding allocation. Every Project receives its
// matching amount if the matching pool covers the sum of all matching amounts; otherwise all matching amounts are
// scaled down by the same factor so that they sum up to the matching pool.
//
// The call does not modify the FundingRound or its projects. It fails with ErrPreconditionFailed if the matching pool
// was not set and with ErrInvalidArgument if the matching amounts are too large to be summed up.
func (f *FundingRound) ComputeCQFAllocation() (*Allocation, error) {
	f.mutex.RLock()
	matchingPool := f.matchingPool
	f.mutex.RUnlock()

	if matchingPool <= 0 {
		return nil, ierrors.Wrap(ErrPreconditionFailed, "matching pool must be set before computing the allocation")
	}

	projects := f.projectsSnapshot()

	idealAmounts := make(map[ProjectID]float64, len(projects))
	staleProjects := make([]ProjectID, 0)
	for _, project := range projects {
		idealAmounts[project.ID()] = project.MatchingAmount()

		if project.IsStale() {
			staleProjects = append(staleProjects, project.ID())
		}
	}

	if len(staleProjects) != 0 {
		f.LogWarnw("computing allocation with stale matching amounts", "projects", staleProjects)
	}

	allocation := newAllocation(idealAmounts, matchingPool)
	if math.IsInf(allocation.IdealTotal(), 0) || math.IsNaN(allocation.IdealTotal()) {
		return nil, ierrors.Wrapf(ErrInvalidArgument, "sum of matching amounts overflows: %v", allocation.IdealTotal())
	}

	f.LogDebugf("computed allocation for %d projects (ideal total %v, matching pool %v, scaling factor %v)", allocation.Size(), allocation.IdealTotal(), matchingPool, allocation.ScalingFactor())
	f.Events.AllocationComputed.Trigger(allocation)

	return allocation, nil
}

// Finalize recomputes all projects, computes the allocation and stores the allocated amount as the final amount of
// each Project.
func (f *FundingRound) Finalize() (*Allocation, error) {
	f.RecomputeAll()

	allocation, err := f.ComputeCQFAllocation()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to finalize funding round")
	}

	for _, project := range f.projectsSnapshot() {
		amount, _ := allocation.Amount(project.ID())
		project.setFinalAmount(amount)
	}

	f.LogInfof("finalized funding round with %d projects, allocated %v of %v", allocation.Size(), allocation.Total(), allocation.MatchingPool())

	return allocation, nil
}

func (f *FundingRound) projectsSnapshot() []*Project {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return lo.Values(f.projects.AsMap())
}

// WithWorkerPool recomputes the projects of the FundingRound on the given WorkerPool.
func WithWorkerPool(workerPool *workerpool.WorkerPool) options.Option[FundingRound] {
	return func(f *FundingRound) {
		f.optsWorkerPool = workerPool
	}
}

// WithLogger sets the logger of the FundingRound.
func WithLogger(log *logger.Logger) options.Option[FundingRound] {
	return func(f *FundingRound) {
		f.optsLogger = log
	}
}
