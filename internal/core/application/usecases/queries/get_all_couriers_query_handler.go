package queries

import (
	"context"
)

// GetAllCouriersQueryHandler lists couriers ordered by name.
//
// Example:
//
//	handler := NewGetAllCouriersQueryHandler(repos)
//	query := NewGetAllCouriersQuery()
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get couriers: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d couriers\n", len(couriers))
type GetAllCouriersQueryHandler struct {
	repos RepositoriesFactory
}

// NewGetAllCouriersQueryHandler creates a handler for courier retrieval queries.
func NewGetAllCouriersQueryHandler(repos RepositoriesFactory) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{repos: repos}
}

// Handle executes the query to retrieve all couriers.
// Returns an empty slice, never nil, when there are none.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.repos.Create().CourierRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0, len(all))
	for _, c := range all {
		couriers = append(couriers, GetAllCouriersQueryResponse{
			ID:     c.ID(),
			Name:   c.Name(),
			Status: c.Status().String(),
		})
	}

	return couriers, nil
}
