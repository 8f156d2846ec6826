package qf

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrInvalidArgument is returned if a matching pool or contribution amount is out of range.
	ErrInvalidArgument = ierrors.New("invalid argument")
	// ErrDuplicateKey is returned if a project with the same id is already registered.
	ErrDuplicateKey = ierrors.New("duplicate key")
	// ErrNotFound is returned if a contribution targets a project that is not registered.
	ErrNotFound = ierrors.New("not found")
	// ErrPreconditionFailed is returned if an allocation is requested before the matching pool is set.
	ErrPreconditionFailed = ierrors.New("precondition failed")
)
