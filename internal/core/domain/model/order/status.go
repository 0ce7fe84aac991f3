package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota

	// Placed orders are not part of any batch.
	Placed

	// Batched orders are members of exactly one batch.
	Batched

	// Delivered is final.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Placed:    "Placed",
		Batched:   "Batched",
		Delivered: "Delivered",
	}
}

func getValidStatusStrings() map[Status]string {
	return map[Status]string{
		Placed:    "Placed",
		Batched:   "Batched",
		Delivered: "Delivered",
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

// ValidateCanHaveBatch checks batch presence against the state. A Delivered
// order keeps its batch unless that batch was deleted afterwards.
func (s Status) ValidateCanHaveBatch(batch bool) error {
	if batch && s == Placed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a batch", s),
		)
	}

	if !batch && s == Batched {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no batch", s),
		)
	}

	return nil
}

func (s Status) Join() (Status, error) {
	if s != Placed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to join a batch", s),
		)
	}
	return Batched, nil
}

// Leave keeps Delivered orders Delivered.
func (s Status) Leave() (Status, error) {
	switch s {
	case Batched:
		return Placed, nil
	case Delivered:
		return Delivered, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to leave a batch", s),
		)
	}
}

func (s Status) Deliver() (Status, error) {
	if s != Batched {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s),
		)
	}
	return Delivered, nil
}
