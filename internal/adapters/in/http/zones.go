package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ResolveZone handles GET /api/v1/zones/resolve - maps a street to its zone.
func (s *Server) ResolveZone(c echo.Context) error {
	var street string
	if err := queryParam(c, "street", true, &street); err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewResolveZoneQuery(street)
	if err != nil {
		return s.fail(c, err)
	}

	z, err := s.h.ResolveZone.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, Zone{ID: z.ZoneID.String(), Name: z.Name, Priority: z.Priority})
}

// GetSlotOffers handles GET /api/v1/zones/{zoneId}/slots - lists offerable slots.
// The optional at parameter replaces the current time.
func (s *Server) GetSlotOffers(c echo.Context) error {
	zoneID, err := pathZone(c)
	if err != nil {
		return s.fail(c, err)
	}

	var at *time.Time
	if err = queryParam(c, "at", false, &at); err != nil {
		return s.fail(c, err)
	}
	now := s.now()
	if at != nil {
		now = *at
	}

	query, err := queries.NewGetSlotOffersQuery(zoneID, now)
	if err != nil {
		return s.fail(c, err)
	}

	offers, err := s.h.GetSlotOffers.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]SlotOffer, 0, len(offers))
	for _, offer := range offers {
		response = append(response, SlotOffer{
			Slot:     offer.Slot.String(),
			Advisory: offer.Advisory,
			Capacity: toCapacity(offer.Capacity),
		})
	}

	return c.JSON(http.StatusOK, response)
}

// GetSlotCapacity handles GET /api/v1/zones/{zoneId}/slots/{slot}/capacity.
func (s *Server) GetSlotCapacity(c echo.Context) error {
	zoneID, err := pathZone(c)
	if err != nil {
		return s.fail(c, err)
	}
	slot, err := pathSlot(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetSlotCapacityQuery(zoneID, slot)
	if err != nil {
		return s.fail(c, err)
	}

	capacity, err := s.h.GetSlotCapacity.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toCapacity(capacity))
}

// GetSlotBatches handles GET /api/v1/slots/{slot}/batches.
func (s *Server) GetSlotBatches(c echo.Context) error {
	slot, err := pathSlot(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetSlotBatchesQuery(slot)
	if err != nil {
		return s.fail(c, err)
	}

	batches, err := s.h.GetSlotBatches.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Batch, 0, len(batches))
	for _, b := range batches {
		response = append(response, toBatch(b))
	}

	return c.JSON(http.StatusOK, response)
}
