package domain

import "errors"

// Sentinel errors surfaced by the reassignment commit. Both are
// rejected before any write happens, so the store is untouched.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)
