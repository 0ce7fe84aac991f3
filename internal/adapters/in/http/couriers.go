package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"

	"github.com/labstack/echo/v4"
)

// GetCouriers handles GET /api/v1/couriers - retrieves all couriers.
func (s *Server) GetCouriers(c echo.Context) error {
	couriers, err := s.h.GetAllCouriers.Handle(c.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Courier, 0, len(couriers))
	for _, item := range couriers {
		response = append(response, Courier{
			ID:     item.ID.Bytes(),
			Name:   item.Name,
			Status: item.Status,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// CreateCourier handles POST /api/v1/couriers - registers a courier.
func (s *Server) CreateCourier(c echo.Context) error {
	var body NewCourier
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCreateCourierCommand(body.Name)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.h.CreateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, Courier{
		ID:     created.CourierID.Bytes(),
		Name:   created.Name,
		Status: created.Status.String(),
	})
}

// ChangeCourierStatus handles PUT /api/v1/couriers/{courierId}/status.
func (s *Server) ChangeCourierStatus(c echo.Context) error {
	courierID, err := pathUUID(c, "courierId")
	if err != nil {
		return s.fail(c, err)
	}

	var body CourierStatus
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	status, err := courier.ParseStatus(body.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeCourierStatusCommand(courierID, status)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.ChangeCourierStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
