package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// TransitionPolicy decides which status jumps ChangeStatus accepts.
//
// Under every policy a terminal order cannot change status. StrictPolicy
// additionally requires the jump to be listed in the adjacency table, while
// PermissivePolicy accepts any non-terminal source. A forced change skips the
// adjacency table but never the terminal check.
type TransitionPolicy int

const (
	StrictPolicy TransitionPolicy = iota + 1
	PermissivePolicy
)

// ParseTransitionPolicy reads "strict" or "permissive" (case-insensitive).
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return StrictPolicy, nil
	case "permissive":
		return PermissivePolicy, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("transition policy", fmt.Errorf("%q is not strict or permissive", s))
	}
}

func (p TransitionPolicy) String() string {
	switch p {
	case StrictPolicy:
		return "strict"
	case PermissivePolicy:
		return "permissive"
	default:
		return "unknown"
	}
}

func adjacency() map[Status][]Status {
	return map[Status][]Status{
		NewRequest:          {Calculating, AwaitingCustomer, ConfirmedByCustomer, SearchingEquipment, Cancelled},
		Calculating:         {AwaitingCustomer, Cancelled},
		AwaitingCustomer:    {ConfirmedByCustomer, Calculating, ContractSigning, Cancelled},
		ContractSigning:     {AwaitingPrepayment, ConfirmedByCustomer, Cancelled},
		AwaitingPrepayment:  {ConfirmedByCustomer, Cancelled},
		ConfirmedByCustomer: {SearchingEquipment, EquipmentApproved, Cancelled},
		SearchingEquipment:  {EquipmentApproved, Cancelled},
		EquipmentApproved:   {EnRoute, SearchingEquipment, Cancelled},
		EnRoute:             {InProgress, Cancelled},
		InProgress:          {ExportCompleted, Cancelled},
		ExportCompleted:     {ReportReady, InProgress},
		ReportReady:         {ClosingDocsSent, Completed},
		ClosingDocsSent:     {AwaitingClosingDocs, Completed},
		AwaitingClosingDocs: {Completed},
	}
}

// AllowedTargets returns the statuses reachable from s under the strict table.
func AllowedTargets(s Status) []Status {
	return append([]Status(nil), adjacency()[s]...)
}

// Check returns nil when the order may move from one status to the other.
func (p TransitionPolicy) Check(from, to Status, force bool) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	}
	if force || p == PermissivePolicy {
		return nil
	}
	for _, allowed := range adjacency()[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s is not allowed", ErrInvalidTransition, from, to)
}
