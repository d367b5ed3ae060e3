package domain

import "errors"

var (
	// ErrValidationRejected means the submission failed the upload policy.
	ErrValidationRejected = errors.New("submission rejected by validator")
	// ErrDeliveryFailed means a single recipient could not be reached.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrNoRecipientsReachable means a broadcast reached no administrator.
	ErrNoRecipientsReachable = errors.New("no administrators reachable")
	// ErrPersistenceFailure means an in-memory change could not be saved.
	ErrPersistenceFailure = errors.New("failed to persist state")
	// ErrSchedulerBusy means the verification queue is full.
	ErrSchedulerBusy = errors.New("verification queue is full")
	// ErrTaskNotFound means the user never started a verification.
	ErrTaskNotFound = errors.New("verification task not found")
)
