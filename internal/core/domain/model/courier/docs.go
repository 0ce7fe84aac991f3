// Package courier models the people who carry delivery runs.
//
// A courier carries at most CapacityPerRun orders on a single trip. Availability
// is an explicit state machine:
//
//	OffShift <-> Available -> OnRun -> Available
//
// A courier leaves the Available state only through an operator status change or
// by starting a run; finishing a run is the only way back from OnRun.
package courier
