package qf

import (
	"math"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/stringify"
)

// ProjectID is the caller assigned identifier of a Project.
type ProjectID uint32

// ContributorID is the caller assigned identifier of a contributor. It is treated as an opaque value, no
// deduplication of logically identical actors takes place.
type ContributorID uint32

// Contribution is an immutable record of an amount that a contributor pledged to a project.
type Contribution struct {
	From   ContributorID
	To     ProjectID
	Amount float64
}

// NewContribution creates a new Contribution.
func NewContribution(from ContributorID, to ProjectID, amount float64) *Contribution {
	return &Contribution{
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// Validate checks that the amount is a finite, non-negative number.
func (c *Contribution) Validate() error {
	return validateAmount(c.Amount, "contribution amount")
}

// String returns a human-readable version of the Contribution.
func (c *Contribution) String() string {
	return stringify.Struct("Contribution",
		stringify.NewStructField("From", uint32(c.From)),
		stringify.NewStructField("To", uint32(c.To)),
		stringify.NewStructField("Amount", c.Amount),
	)
}

func validateAmount(amount float64, name string) error {
	switch {
	case math.IsNaN(amount), math.IsInf(amount, 0):
		return ierrors.Wrapf(ErrInvalidArgument, "%s must be finite, got %v", name, amount)
	case amount < 0:
		return ierrors.Wrapf(ErrInvalidArgument, "%s must not be negative, got %v", name, amount)
	default:
		return nil
	}
}
