package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// SlotWidth is the fixed length of every delivery window.
	SlotWidth = 15 * time.Minute

	slotWidthMinutes = 15
	minutesPerDay    = 24 * 60
)

var ErrSlotIsNotConstructed = errs.NewValueIsRequiredError(
	"slot must be created via NewSlot or ParseSlot constructors")

// Slot is a 15-minute window within a service day, labelled "HH:MM-HH:MM".
//
// Internally a slot is the number of minutes since midnight of its start, so
// adding a slot width and comparing against wall-clock time never depends on
// string manipulation. Slots wrap at midnight: the slot after "23:45-00:00"
// is "00:00-00:15". Slot is comparable and can be used as a map key.
type Slot struct {
	start int
	guard guard.ConstructorGuard
}

// NewSlot builds the slot starting at hour:minute. The start must sit on a
// quarter hour.
func NewSlot(hour, minute int) (Slot, error) {
	if hour < 0 || hour > 23 {
		return Slot{}, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return Slot{}, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	if minute%slotWidthMinutes != 0 {
		return Slot{}, errs.NewValueIsInvalidErrorWithCause(
			"slot",
			fmt.Errorf("%02d:%02d is not aligned to a %d-minute boundary", hour, minute, slotWidthMinutes),
		)
	}

	return Slot{start: hour*60 + minute, guard: guard.NewConstructorGuard()}, nil
}

// ParseSlot accepts a full label ("20:00-20:15") or a bare start ("20:00").
// For a full label the end must be exactly one slot width after the start.
func ParseSlot(label string) (Slot, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Slot{}, errs.NewValueIsRequiredError("slot")
	}

	startLabel, endLabel, hasEnd := strings.Cut(label, "-")

	start, err := parseClock(startLabel)
	if err != nil {
		return Slot{}, errs.NewValueIsInvalidErrorWithCause("slot", fmt.Errorf("%q: %w", label, err))
	}

	slot, err := NewSlot(start/60, start%60)
	if err != nil {
		return Slot{}, err
	}

	if hasEnd {
		end, endErr := parseClock(endLabel)
		if endErr != nil {
			return Slot{}, errs.NewValueIsInvalidErrorWithCause("slot", fmt.Errorf("%q: %w", label, endErr))
		}
		if end != slot.endMinutes()%minutesPerDay {
			return Slot{}, errs.NewValueIsInvalidErrorWithCause(
				"slot",
				fmt.Errorf("%q does not span exactly %d minutes", label, slotWidthMinutes),
			)
		}
	}

	return slot, nil
}

// MustParseSlot is ParseSlot for compile-time constants and tests.
func MustParseSlot(label string) Slot {
	s, err := ParseSlot(label)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Slot) Validate() error {
	return s.guard.Validate(ErrSlotIsNotConstructed)
}

// StartMinutes is the slot start as minutes since midnight.
func (s Slot) StartMinutes() int {
	return s.start
}

func (s Slot) IsEqual(other Slot) bool {
	return s == other
}

// Before reports whether s starts earlier in the day than other.
func (s Slot) Before(other Slot) bool {
	return s.start < other.start
}

// Next returns the following slot, wrapping past midnight.
func (s Slot) Next() Slot {
	return Slot{start: s.endMinutes() % minutesPerDay, guard: s.guard}
}

// StartsAt positions the slot on the calendar day of day, in day's location.
func (s Slot) StartsAt(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, s.start/60, s.start%60, 0, 0, day.Location())
}

// StartLabel renders the start only, e.g. "20:30".
func (s Slot) StartLabel() string {
	return formatClock(s.start)
}

// String renders the public label, e.g. "20:30-20:45".
func (s Slot) String() string {
	return formatClock(s.start) + "-" + formatClock(s.endMinutes()%minutesPerDay)
}

func (s Slot) endMinutes() int {
	return s.start + slotWidthMinutes
}

// SlotsBetween enumerates consecutive slots starting at opensAt up to, but excluding,
// the slot starting at closesAt. A window that closes before it opens runs past midnight.
func SlotsBetween(opensAt, closesAt Slot) ([]Slot, error) {
	if err := errors.Join(opensAt.Validate(), closesAt.Validate()); err != nil {
		return nil, err
	}

	span := closesAt.start - opensAt.start
	if span <= 0 {
		span += minutesPerDay
	}

	slots := make([]Slot, 0, span/slotWidthMinutes)
	for cur := opensAt; len(slots) < span/slotWidthMinutes; cur = cur.Next() {
		slots = append(slots, cur)
	}
	return slots, nil
}

func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%q is not in HH:MM form", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("hour %q: %w", hh, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("minute %q: %w", mm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%q is not a valid time of day", s)
	}

	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
