package http

import (
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers bundles the use cases the HTTP surface exposes.
type Handlers struct {
	PlaceOrder            commands.PlaceOrderCommandHandler
	AssignOrder           commands.AssignOrderCommandHandler
	AssignUnbatchedOrders commands.AssignUnbatchedOrdersCommandHandler
	MarkOrderDelivered    commands.MarkOrderDeliveredCommandHandler
	CreateCourier         commands.CreateCourierCommandHandler
	ChangeCourierStatus   commands.ChangeCourierStatusCommandHandler
	AssignCourier         commands.AssignCourierCommandHandler
	AssignPendingBatches  commands.AssignPendingBatchesCommandHandler
	StartBatch            commands.StartBatchCommandHandler
	CompleteBatch         commands.CompleteBatchCommandHandler
	DeleteBatch           commands.DeleteBatchCommandHandler
	RemoveOrderFromBatch  commands.RemoveOrderFromBatchCommandHandler

	ResolveZone        queries.ResolveZoneQueryHandler
	GetSlotOffers      queries.GetSlotOffersQueryHandler
	GetSlotCapacity    queries.GetSlotCapacityQueryHandler
	GetSlotBatches     queries.GetSlotBatchesQueryHandler
	GetAllCouriers     queries.GetAllCouriersQueryHandler
	GetUnbatchedOrders queries.GetUnbatchedOrdersQueryHandler
}

// Server translates HTTP requests into commands and queries.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
	now    func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		h:      handlers,
		logger: logger.With("component", "http"),
		now:    time.Now,
	}
}

// Register mounts every route on e. The OpenAPI document is validated and
// installed as request validator and as the document served under /swagger.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := LoadOpenAPI()
	if err != nil {
		return err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}
	if err = RegisterSwagger(doc); err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)

	api.GET("/zones/resolve", s.ResolveZone)
	api.GET("/zones/:zoneId/slots", s.GetSlotOffers)
	api.GET("/zones/:zoneId/slots/:slot/capacity", s.GetSlotCapacity)

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/unbatched", s.GetUnbatchedOrders)
	api.POST("/orders/assign-unbatched", s.AssignUnbatchedOrders)
	api.POST("/orders/:orderId/assign", s.AssignOrder)
	api.POST("/orders/:orderId/delivered", s.MarkOrderDelivered)

	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers", s.CreateCourier)
	api.PUT("/couriers/:courierId/status", s.ChangeCourierStatus)

	api.GET("/slots/:slot/batches", s.GetSlotBatches)

	api.POST("/batches/assign-pending", s.AssignPendingBatches)
	api.DELETE("/batches/:batchId", s.DeleteBatch)
	api.POST("/batches/:batchId/courier", s.AssignCourier)
	api.POST("/batches/:batchId/start", s.StartBatch)
	api.POST("/batches/:batchId/complete", s.CompleteBatch)
	api.DELETE("/batches/:batchId/orders/:orderId", s.RemoveOrderFromBatch)

	return nil
}
