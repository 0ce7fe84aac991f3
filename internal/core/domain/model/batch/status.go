package batch

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a batch.
type Status int

const (
	Unknown Status = iota

	// Pending batches reserve capacity but have no courier yet.
	Pending

	// Assigned batches have a courier attached who has not left yet.
	Assigned

	// InProgress batches are out for delivery.
	InProgress

	// Completed is terminal. Completed batches take no part in capacity or
	// adjacency calculations.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Assigned:   "Assigned",
		InProgress: "InProgress",
		Completed:  "Completed",
	}
}

func getValidStatusStrings() map[Status]string {
	return map[Status]string{
		Pending:    "Pending",
		Assigned:   "Assigned",
		InProgress: "InProgress",
		Completed:  "Completed",
	}
}

func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateCanHaveCourier checks that the courier presence matches the state.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if !courier && s != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	if courier && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	return nil
}

// Assign attaches a courier. A batch that has not left yet may be reassigned.
func (s Status) Assign() (Status, error) {
	if s == Completed {
		return 0, ErrBatchCompleted
	}
	if s != Pending && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign a courier", s),
		)
	}
	return Assigned, nil
}

func (s Status) Start() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start a run", s),
		)
	}
	return InProgress, nil
}

func (s Status) Complete() (Status, error) {
	if s == Completed {
		return 0, ErrBatchCompleted
	}
	if s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
	return Completed, nil
}
