package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrDuplicateID indicates a project with the same ID is already registered.
	ErrDuplicateID = errors.New("duplicate project id")
)
