package kernel

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrServiceWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"service window must be created via NewServiceWindow constructor")

// ServiceWindow is the run of slots offered on one service day. Slot labels
// are wall-clock times in the window's location.
//
// A window that closes at or before its opening runs past midnight, and its
// slots after midnight belong to the service day on which the window opened.
type ServiceWindow struct {
	opensAt  Slot
	closesAt Slot
	loc      *time.Location

	guard guard.ConstructorGuard
}

func NewServiceWindow(opensAt, closesAt Slot, loc *time.Location) (ServiceWindow, error) {
	if err := errors.Join(opensAt.Validate(), closesAt.Validate()); err != nil {
		return ServiceWindow{}, err
	}
	if loc == nil {
		return ServiceWindow{}, errs.NewValueIsRequiredError("location")
	}

	return ServiceWindow{
		opensAt:  opensAt,
		closesAt: closesAt,
		loc:      loc,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (w ServiceWindow) Validate() error {
	return w.guard.Validate(ErrServiceWindowIsNotConstructed)
}

func (w ServiceWindow) Location() *time.Location {
	return w.loc
}

// Slots lists every slot of the window in service order.
func (w ServiceWindow) Slots() []Slot {
	slots, err := SlotsBetween(w.opensAt, w.closesAt)
	if err != nil {
		return nil
	}
	return slots
}

// StartsAt places slot on the service day that is running, or next to run, at now.
// The result is in the window's location whatever location now carries.
func (w ServiceWindow) StartsAt(slot Slot, now time.Time) time.Time {
	local := now.In(w.loc)

	day := local
	if w.wrapsMidnight() {
		if local.Hour()*60+local.Minute() < w.closesAt.start {
			day = day.AddDate(0, 0, -1)
		}
		if slot.start < w.opensAt.start {
			day = day.AddDate(0, 0, 1)
		}
	}

	return slot.StartsAt(day)
}

// LeadTime is how long after now the slot opens. It is negative once the slot has started.
func (w ServiceWindow) LeadTime(slot Slot, now time.Time) time.Duration {
	return w.StartsAt(slot, now).Sub(now)
}

func (w ServiceWindow) wrapsMidnight() bool {
	return w.closesAt.start <= w.opensAt.start
}
