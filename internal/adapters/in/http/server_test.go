package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct{ store *memory.Store }

func (f uowFactory) Create() commands.UoW { return f.store.Create() }

type courierUoWFactory struct{ store *memory.Store }

func (f courierUoWFactory) Create() commands.CourierUoW { return f.store.Create() }

type reposFactory struct{ store *memory.Store }

func (f reposFactory) Create() queries.Repositories { return f.store.Create() }

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	store := memory.NewStore()
	oldTown, err := zone.NewZone("old-town", "Old Town", zone.Primary, []string{"Main Street"}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.Create().ZoneRepository().Save(t.Context(), oldTown))

	uows := uowFactory{store: store}
	repos := reposFactory{store: store}
	locker := commands.NewSlotLocker()
	calculator := services.NewSlotCapacityCalculator(0)
	assignOrder := commands.NewAssignOrderCommandHandler(uows, locker, nil, nil)

	window, err := kernel.NewServiceWindow(kernel.MustParseSlot("19:00"), kernel.MustParseSlot("21:00"), time.UTC)
	require.NoError(t, err)
	offers := queries.NewGetSlotOffersQueryHandler(repos, calculator, window)

	server := httpin.NewServer(httpin.Handlers{
		PlaceOrder:            commands.NewPlaceOrderCommandHandler(uows, locker, calculator, nil, nil),
		AssignOrder:           assignOrder,
		AssignUnbatchedOrders: commands.NewAssignUnbatchedOrdersCommandHandler(uows, assignOrder, nil),
		MarkOrderDelivered:    commands.NewMarkOrderDeliveredCommandHandler(uows, locker),
		CreateCourier:         commands.NewCreateCourierCommandHandler(courierUoWFactory{store: store}),
		ChangeCourierStatus:   commands.NewChangeCourierStatusCommandHandler(courierUoWFactory{store: store}, locker),
		AssignCourier:         commands.NewAssignCourierCommandHandler(uows, locker, nil, nil),
		AssignPendingBatches:  commands.NewAssignPendingBatchesCommandHandler(uows, locker, nil, nil),
		StartBatch:            commands.NewStartBatchCommandHandler(uows, locker, nil, nil),
		CompleteBatch:         commands.NewCompleteBatchCommandHandler(uows, locker, nil, nil),
		DeleteBatch:           commands.NewDeleteBatchCommandHandler(uows, locker, nil, nil),
		RemoveOrderFromBatch:  commands.NewRemoveOrderFromBatchCommandHandler(uows, locker, nil, nil),
		ResolveZone:           queries.NewResolveZoneQueryHandler(repos),
		GetSlotOffers:         offers,
		GetSlotCapacity:       queries.NewGetSlotCapacityQueryHandler(repos, calculator),
		GetSlotBatches:        queries.NewGetSlotBatchesQueryHandler(repos),
		GetAllCouriers:        queries.NewGetAllCouriersQueryHandler(repos),
		GetUnbatchedOrders:    queries.NewGetUnbatchedOrdersQueryHandler(repos),
	}, nil)

	e := echo.New()
	require.NoError(t, server.Register(e))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCouriers(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/couriers", `{"name":"Ann"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[httpin.Courier](t, rec)
	assert.Equal(t, "Available", created.Status)

	rec = do(e, http.MethodPut, "/api/v1/couriers/"+created.ID.String()+"/status", `{"status":"OffShift"}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/couriers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]httpin.Courier](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "OffShift", list[0].Status)
}

func TestCreateCourier_RejectedByValidator(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/couriers", `{"name":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/v1/couriers", `{"name":"Ann"}`).Code)

	// Act: the zone is resolved from the street
	rec := do(e, http.MethodPost, "/api/v1/orders", `{"street":"main street","slot":"20:00-20:15"}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[httpin.PlaceOrderResult](t, rec)
	assert.True(t, placed.Admitted)
	assert.Equal(t, "NewBatchCreated", placed.Outcome)
	require.NotNil(t, placed.BatchID)
	assert.Equal(t, 3, placed.Capacity.Remaining)

	rec = do(e, http.MethodGet, "/api/v1/zones/old-town/slots/20:00/capacity", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	capacity := decode[httpin.Capacity](t, rec)
	assert.Equal(t, 1, capacity.Used)
	assert.Equal(t, "20:00-20:15", capacity.Slot)

	rec = do(e, http.MethodPost, "/api/v1/batches/"+placed.BatchID.String()+"/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/batches/assign-pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, httpin.PendingResult{Assigned: 1}, decode[httpin.PendingResult](t, rec))

	rec = do(e, http.MethodPost, "/api/v1/batches/"+placed.BatchID.String()+"/start", "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/orders/"+placed.OrderID.String()+"/delivered", "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/batches/"+placed.BatchID.String()+"/complete", "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/slots/20:00-20:15/batches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	batches := decode[[]httpin.Batch](t, rec)
	require.Len(t, batches, 1)
	assert.Equal(t, "Completed", batches[0].Status)
	assert.Equal(t, []openapi_types.UUID{placed.OrderID}, batches[0].OrderIDs)
}

func TestPlaceOrder_Errors(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "missing slot", body: `{"zoneId":"old-town"}`, code: http.StatusBadRequest},
		{name: "malformed slot", body: `{"zoneId":"old-town","slot":"8pm"}`, code: http.StatusBadRequest},
		{name: "misaligned slot", body: `{"zoneId":"old-town","slot":"20:05"}`, code: http.StatusBadRequest},
		{name: "pickup", body: `{"slot":"20:00"}`, code: http.StatusNotFound},
		{name: "unknown street", body: `{"street":"Nowhere Road","slot":"20:00"}`, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/orders", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestPlaceOrder_CapacityRejection(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/orders", `{"zoneId":"old-town","slot":"20:00"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[httpin.PlaceOrderResult](t, rec)
	assert.False(t, result.Admitted)
	assert.Equal(t, services.ReasonCapacityExhausted, result.Capacity.Reason)
}

func TestResolveZone(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/zones/resolve?street=Main%20Street", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, httpin.Zone{ID: "old-town", Name: "Old Town", Priority: "Primary"}, decode[httpin.Zone](t, rec))

	rec = do(e, http.MethodGet, "/api/v1/zones/resolve?street=Elm", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/zones/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlotOffers(t *testing.T) {
	e := newTestServer(t)
	at := time.Date(2026, 10, 14, 20, 20, 0, 0, time.UTC).Format(time.RFC3339)

	rec := do(e, http.MethodGet, "/api/v1/zones/old-town/slots?at="+at, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	offers := decode[[]httpin.SlotOffer](t, rec)
	require.Len(t, offers, 1)
	assert.Equal(t, "20:45-21:00", offers[0].Slot)
	assert.False(t, offers[0].Capacity.Available)
}

func TestBatchNotFoundAndBadID(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodDelete, "/api/v1/batches/"+kernel.NewUUID().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/orders/not-a-uuid/assign", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
