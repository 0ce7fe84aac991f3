// Package services provides the stateless domain services of the dispatch core.
// Every service works on aggregates handed to it by the caller and never loads or
// stores anything itself, so the whole package can be exercised with plain values.
//
// The package includes:
//   - ZoneRegistry: street to zone resolution and the symmetric adjacency graph
//   - CourierAvailability: which couriers can still take a run in a slot
//   - SlotCapacityCalculator: total, used and remaining order capacity for a zone and slot
//   - BatchAssigner: the join / new batch / defer decision for a placed order
//   - BatchLifecycle: the only place batches and their member orders are mutated
//   - SlotOffering: which slots a customer in a zone may be offered right now
package services
