package order

import "errors"

var (
	// ErrInvalidTransition is returned when a status change is not permitted,
	// either because the order is terminal or because the policy forbids the jump.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderTerminal is returned when work is reported against a completed or
	// cancelled order.
	ErrOrderTerminal = errors.New("order is terminal")

	// ErrOrderFrozen is returned when prices are edited after customer confirmation.
	ErrOrderFrozen = errors.New("order terms are frozen")

	ErrBidNotPending = errors.New("bid is not pending")

	// ErrSlotFilled is returned when no eligible requirement has free units left.
	ErrSlotFilled = errors.New("no free requirement slot")

	ErrAssignmentTerminal          = errors.New("assignment is completed")
	ErrInvalidAssignmentTransition = errors.New("assignment status can only move forward")
	ErrShiftNotApplicable          = errors.New("shift tracking does not apply to trucks")
	ErrShiftNotStarted             = errors.New("shift was not started")
	ErrShiftAlreadyStarted         = errors.New("shift is already started")

	ErrNoEvidence       = errors.New("trip report has no photos")
	ErrAlreadyConfirmed = errors.New("trip is already confirmed")
)
