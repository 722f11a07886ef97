package app

import "time"

// Operation tracks the CLI command a FolioApp was opened for. Its outcome is
// logged when the app is closed.
type Operation struct {
	Name       string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
	Err        error
}

// NewOperation creates an operation that succeeds unless Fail is called.
func NewOperation(name, parameters string, startedAt time.Time) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		Status:     "success",
		StartedAt:  startedAt,
	}
}

// Fail marks the operation as failed. The first error is kept.
func (op *Operation) Fail(err error) {
	if err == nil {
		return
	}
	op.Status = "error"
	if op.Err == nil {
		op.Err = err
	}
}

// Failed returns true if Fail was called with a non-nil error.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
