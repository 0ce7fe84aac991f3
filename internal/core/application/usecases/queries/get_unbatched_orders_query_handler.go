package queries

import (
	"context"
)

// GetUnbatchedOrdersQueryHandler lists unbatched delivery orders in placement order.
type GetUnbatchedOrdersQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetUnbatchedOrdersQueryHandler(repos RepositoriesFactory) GetUnbatchedOrdersQueryHandler {
	return GetUnbatchedOrdersQueryHandler{repos: repos}
}

func (h GetUnbatchedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnbatchedOrdersQuery,
) ([]GetUnbatchedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.repos.Create().OrderRepository().GetUnbatched(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]GetUnbatchedOrdersQueryResponse, 0, len(all))
	for _, o := range all {
		zoneID, ok := o.ZoneID()
		if !ok {
			continue
		}
		orders = append(orders, GetUnbatchedOrdersQueryResponse{
			ID:     o.ID(),
			ZoneID: zoneID,
			Slot:   o.Slot(),
		})
	}

	return orders, nil
}
