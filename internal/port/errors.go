package port

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNoData         = errors.New("no data")
	ErrDuplicate      = errors.New("duplicate")
	ErrOptimisticLock = errors.New("optimistic lock conflict")
)
