package http

import (
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type Zone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

type Capacity struct {
	ZoneID    string `json:"zoneId"`
	Slot      string `json:"slot"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type SlotOffer struct {
	Slot     string   `json:"slot"`
	Advisory bool     `json:"advisory"`
	Capacity Capacity `json:"capacity"`
}

type NewOrder struct {
	ID     *openapi_types.UUID `json:"id,omitempty"`
	ZoneID *string             `json:"zoneId,omitempty"`
	Street *string             `json:"street,omitempty"`
	Slot   string              `json:"slot"`
}

type Assignment struct {
	OrderID       openapi_types.UUID  `json:"orderId"`
	Outcome       string              `json:"outcome"`
	BatchID       *openapi_types.UUID `json:"batchId,omitempty"`
	SuggestedSlot *string             `json:"suggestedSlot,omitempty"`
}

type PlaceOrderResult struct {
	Assignment

	Admitted bool     `json:"admitted"`
	Capacity Capacity `json:"capacity"`
}

type Order struct {
	ID     openapi_types.UUID `json:"id"`
	ZoneID string             `json:"zoneId"`
	Slot   string             `json:"slot"`
}

type NewCourier struct {
	Name string `json:"name"`
}

type Courier struct {
	ID     openapi_types.UUID `json:"id"`
	Name   string             `json:"name"`
	Status string             `json:"status"`
}

type CourierStatus struct {
	Status string `json:"status"`
}

type CourierAssignment struct {
	CourierID openapi_types.UUID `json:"courierId"`
}

type Batch struct {
	ID        openapi_types.UUID   `json:"id"`
	ZoneID    string               `json:"zoneId"`
	Slot      string               `json:"slot"`
	Status    string               `json:"status"`
	CourierID *openapi_types.UUID  `json:"courierId,omitempty"`
	OrderIDs  []openapi_types.UUID `json:"orderIds"`
}

type SweepResult struct {
	Batched  int `json:"batched"`
	Deferred int `json:"deferred"`
	Failed   int `json:"failed"`
}

type PendingResult struct {
	Assigned int `json:"assigned"`
	Waiting  int `json:"waiting"`
	Failed   int `json:"failed"`
}

func toCapacity(c services.Capacity) Capacity {
	return Capacity{
		ZoneID:    c.ZoneID.String(),
		Slot:      c.Slot.String(),
		Total:     c.Total,
		Used:      c.Used,
		Remaining: c.Remaining,
		Available: c.Available,
		Reason:    c.Reason,
	}
}

func toAssignment(r commands.AssignmentResult) Assignment {
	a := Assignment{
		OrderID: r.OrderID.Bytes(),
		Outcome: r.Outcome.String(),
	}
	if r.BatchID != nil {
		id := openapi_types.UUID(r.BatchID.Bytes())
		a.BatchID = &id
	}
	if r.SuggestedSlot != nil {
		label := r.SuggestedSlot.String()
		a.SuggestedSlot = &label
	}
	return a
}

func toBatch(b queries.GetSlotBatchesQueryResponse) Batch {
	out := Batch{
		ID:       b.ID.Bytes(),
		ZoneID:   b.ZoneID.String(),
		Slot:     b.Slot.String(),
		Status:   b.Status,
		OrderIDs: make([]openapi_types.UUID, 0, len(b.OrderIDs)),
	}
	if b.CourierID != nil {
		id := openapi_types.UUID(b.CourierID.Bytes())
		out.CourierID = &id
	}
	for _, id := range b.OrderIDs {
		out.OrderIDs = append(out.OrderIDs, id.Bytes())
	}
	return out
}
