package demand

import "errors"

var (
	// ErrDemandNotFound indicates no partition holds the demand.
	ErrDemandNotFound = errors.New("demand not found")
	// ErrInvalidStatus indicates a status outside the six board columns.
	ErrInvalidStatus = errors.New("invalid demand status")
	// ErrInvalidInput indicates invalid demand input.
	ErrInvalidInput = errors.New("invalid demand input")
	// ErrDuplicateID indicates two demands share an ID.
	ErrDuplicateID = errors.New("duplicate demand id")
)
