package order

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Assignment looks up an assignment by id.
func (o *Order) Assignment(id kernel.UUID) (DriverAssignment, error) {
	i, err := o.assignmentIndex(id)
	if err != nil {
		return DriverAssignment{}, err
	}
	return o.assignments[i], nil
}

// UpdateAssignmentStatus moves an assignment forward and stamps the matching
// time: arrivedAt for en_route, startedAt for working, completedAt for completed.
func (o *Order) UpdateAssignmentStatus(id kernel.UUID, next AssignmentStatus, actor string, now time.Time) error {
	return o.mutateAssignment(id, actor, now, func(a *DriverAssignment) (string, error) {
		prev := a.Status()
		if err := a.updateStatus(next, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("assignment %s (%s) moved from %s to %s", id, a.DriverName(), prev, next), nil
	})
}

// StartShift stamps the shift start of a loader or mini loader assignment.
func (o *Order) StartShift(id kernel.UUID, actor string, now time.Time) error {
	return o.mutateAssignment(id, actor, now, func(a *DriverAssignment) (string, error) {
		if err := a.startShift(now); err != nil {
			return "", err
		}
		return fmt.Sprintf("shift started for assignment %s", id), nil
	})
}

// EndShift stamps the shift end. A shift that was never started cannot end.
func (o *Order) EndShift(id kernel.UUID, actor string, now time.Time) error {
	return o.mutateAssignment(id, actor, now, func(a *DriverAssignment) (string, error) {
		if err := a.endShift(now); err != nil {
			return "", err
		}
		return fmt.Sprintf("shift ended for assignment %s after %s", id, a.ShiftDuration().Round(time.Minute)), nil
	})
}

func (o *Order) mutateAssignment(
	id kernel.UUID,
	actor string,
	now time.Time,
	fn func(a *DriverAssignment) (string, error),
) error {
	i, err := o.assignmentIndex(id)
	if err != nil {
		return err
	}

	a := o.assignments[i]
	action, err := fn(&a)
	if err != nil {
		return err
	}

	o.assignments[i] = a
	o.record(now, ActionAssignment, actor, action, "", "")
	return nil
}

func (o *Order) assignmentIndex(id kernel.UUID) (int, error) {
	for i, a := range o.assignments {
		if a.ID().IsEqual(id) {
			return i, nil
		}
	}
	return -1, errs.NewObjectNotFoundError("assignment", id.String())
}
