package qf

import "github.com/iotaledger/hive.go/runtime/event"

// Events is a collection of events that are triggered by a FundingRound.
type Events struct {
	// ProjectAdded is triggered after a Project was registered.
	ProjectAdded *event.Event1[*Project]

	// ContributionAdded is triggered after a Contribution was routed into its Project.
	ContributionAdded *event.Event1[*Contribution]

	// MatchingPoolUpdated is triggered with the new value after the matching pool was set.
	MatchingPoolUpdated *event.Event1[float64]

	// AllocationComputed is triggered for every Allocation that was computed.
	AllocationComputed *event.Event1[*Allocation]
}

// NewEvents creates a new Events instance.
func NewEvents() *Events {
	return &Events{
		ProjectAdded:        event.New1[*Project](),
		ContributionAdded:   event.New1[*Contribution](),
		MatchingPoolUpdated: event.New1[float64](),
		AllocationComputed:  event.New1[*Allocation](),
	}
}
