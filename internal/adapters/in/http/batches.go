package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AssignPendingBatches handles POST /api/v1/batches/assign-pending.
func (s *Server) AssignPendingBatches(c echo.Context) error {
	result, err := s.h.AssignPendingBatches.Handle(c.Request().Context(), commands.NewAssignPendingBatchesCommand())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, PendingResult{
		Assigned: result.Assigned,
		Waiting:  result.Waiting,
		Failed:   result.Failed,
	})
}

// AssignCourier handles POST /api/v1/batches/{batchId}/courier.
func (s *Server) AssignCourier(c echo.Context) error {
	batchID, err := pathUUID(c, "batchId")
	if err != nil {
		return s.fail(c, err)
	}

	var body CourierAssignment
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromBytes(body.CourierID[:])
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignCourierCommand(batchID, courierID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.AssignCourier.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StartBatch handles POST /api/v1/batches/{batchId}/start.
func (s *Server) StartBatch(c echo.Context) error {
	batchID, err := pathUUID(c, "batchId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewStartBatchCommand(batchID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.StartBatch.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CompleteBatch handles POST /api/v1/batches/{batchId}/complete.
func (s *Server) CompleteBatch(c echo.Context) error {
	batchID, err := pathUUID(c, "batchId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCompleteBatchCommand(batchID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.CompleteBatch.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteBatch handles DELETE /api/v1/batches/{batchId}.
func (s *Server) DeleteBatch(c echo.Context) error {
	batchID, err := pathUUID(c, "batchId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDeleteBatchCommand(batchID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.DeleteBatch.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveOrderFromBatch handles DELETE /api/v1/batches/{batchId}/orders/{orderId}.
func (s *Server) RemoveOrderFromBatch(c echo.Context) error {
	batchID, err := pathUUID(c, "batchId")
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRemoveOrderFromBatchCommand(batchID, orderID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.RemoveOrderFromBatch.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
