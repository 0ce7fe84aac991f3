// Package kernel holds the value objects shared by every dispatch aggregate:
// identifiers (UUID) and delivery time slots (Slot).
//
// Both types are immutable and comparable. Their zero values are invalid and
// fail Validate, so aggregates can detect values that skipped a constructor.
package kernel
