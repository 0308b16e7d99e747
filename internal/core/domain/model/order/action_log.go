package order

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

// ActionType classifies audit entries.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionStatusChange
	ActionAssignment
	ActionTripConfirmed
	ActionPriceUpdate
	ActionOther
)

func getActionTypeStrings() map[ActionType]string {
	return map[ActionType]string{
		ActionUnknown:       "unknown",
		ActionStatusChange:  "status_change",
		ActionAssignment:    "assignment",
		ActionTripConfirmed: "trip_confirmed",
		ActionPriceUpdate:   "price_update",
		ActionOther:         "other",
	}
}

func ParseActionType(s string) (ActionType, error) {
	for t, name := range getActionTypeStrings() {
		if t != ActionUnknown && name == s {
			return t, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action type", fmt.Errorf("%q is not a known action type", s))
}

func (t ActionType) String() string {
	if s, ok := getActionTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// ActionLogEntry is one immutable audit record. PreviousValue and NewValue are
// set for entries that move the order status.
type ActionLogEntry struct {
	timestamp     time.Time
	action        string
	actionType    ActionType
	performedBy   string
	previousValue string
	newValue      string
}

// RestoreActionLogEntry rebuilds an entry loaded from storage.
func RestoreActionLogEntry(
	timestamp time.Time,
	action string,
	actionType ActionType,
	performedBy, previousValue, newValue string,
) ActionLogEntry {
	return ActionLogEntry{
		timestamp:     timestamp,
		action:        action,
		actionType:    actionType,
		performedBy:   performedBy,
		previousValue: previousValue,
		newValue:      newValue,
	}
}

func (e ActionLogEntry) Timestamp() time.Time {
	return e.timestamp
}

func (e ActionLogEntry) Action() string {
	return e.action
}

func (e ActionLogEntry) ActionType() ActionType {
	return e.actionType
}

func (e ActionLogEntry) PerformedBy() string {
	return e.performedBy
}

func (e ActionLogEntry) PreviousValue() string {
	return e.previousValue
}

func (e ActionLogEntry) NewValue() string {
	return e.newValue
}
