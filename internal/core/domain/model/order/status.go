package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// The happy path runs:
//
//	NEW_REQUEST → CALCULATING → AWAITING_CUSTOMER → CONFIRMED_BY_CUSTOMER
//	  → SEARCHING_EQUIPMENT → EQUIPMENT_APPROVED → EN_ROUTE → IN_PROGRESS
//	  → EXPORT_COMPLETED → REPORT_READY → COMPLETED
//
// with contract and closing-document detours. COMPLETED and CANCELLED are
// terminal: nothing moves an order out of them. Which jumps are legal is
// decided by a TransitionPolicy, not by Status itself.
type Status int

const (
	Unknown Status = iota
	NewRequest
	Calculating
	AwaitingCustomer
	ConfirmedByCustomer
	SearchingEquipment
	EquipmentApproved
	EnRoute
	InProgress
	ExportCompleted
	ReportReady
	Completed
	Cancelled
	ContractSigning
	AwaitingPrepayment
	ClosingDocsSent
	AwaitingClosingDocs
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "UNKNOWN",
		NewRequest:          "NEW_REQUEST",
		Calculating:         "CALCULATING",
		AwaitingCustomer:    "AWAITING_CUSTOMER",
		ConfirmedByCustomer: "CONFIRMED_BY_CUSTOMER",
		SearchingEquipment:  "SEARCHING_EQUIPMENT",
		EquipmentApproved:   "EQUIPMENT_APPROVED",
		EnRoute:             "EN_ROUTE",
		InProgress:          "IN_PROGRESS",
		ExportCompleted:     "EXPORT_COMPLETED",
		ReportReady:         "REPORT_READY",
		Completed:           "COMPLETED",
		Cancelled:           "CANCELLED",
		ContractSigning:     "CONTRACT_SIGNING",
		AwaitingPrepayment:  "AWAITING_PREPAYMENT",
		ClosingDocsSent:     "CLOSING_DOCS_SENT",
		AwaitingClosingDocs: "AWAITING_CLOSING_DOCS",
	}
}

// AllStatuses lists every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{
		NewRequest, Calculating, AwaitingCustomer, ConfirmedByCustomer,
		SearchingEquipment, EquipmentApproved, EnRoute, InProgress,
		ExportCompleted, ReportReady, Completed, Cancelled,
		ContractSigning, AwaitingPrepayment, ClosingDocsSent, AwaitingClosingDocs,
	}
}

// ParseStatus maps the wire name (e.g. "EN_ROUTE") back to a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > AwaitingClosingDocs {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the order is closed for good.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
