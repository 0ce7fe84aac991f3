package courier

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the availability state of a courier.
type Status int

const (
	Unknown Status = iota

	// Available couriers are on shift and not currently carrying a run.
	Available

	// OnRun couriers are out delivering a batch.
	OnRun

	// OffShift couriers are not working.
	OffShift
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Available: "Available",
		OnRun:     "OnRun",
		OffShift:  "OffShift",
	}
}

func getValidStatusStrings() map[Status]string {
	return map[Status]string{
		Available: "Available",
		OnRun:     "OnRun",
		OffShift:  "OffShift",
	}
}

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(s string) (Status, error) {
	for st, name := range getValidStatusStrings() {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a courier status", s))
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

// ChangeTo is the operator transition. OnRun cannot be entered or left this way.
func (s Status) ChangeTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if s == OnRun || target == OnRun {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot change status from %s to %s directly", s, target),
		)
	}
	return target, nil
}

func (s Status) StartRun() (Status, error) {
	if s != Available {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start a run", s),
		)
	}
	return OnRun, nil
}

func (s Status) FinishRun() (Status, error) {
	if s != OnRun {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to finish a run", s),
		)
	}
	return Available, nil
}
