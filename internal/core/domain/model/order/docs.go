// Package order models an order as the batching engine sees it: an identity, the
// zone it resolved to, the slot the customer picked and its batch membership.
//
// Pickup orders carry no zone and are never batched.
//
// Status workflow:
//
//	Placed -> Batched -> Delivered
//	Batched -> Placed   (removed from a batch or the batch was deleted)
package order
