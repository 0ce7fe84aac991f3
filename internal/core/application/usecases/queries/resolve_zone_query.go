package queries

import (
	"context"
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrResolveZoneQueryIsNotConstructed = errors.New(
	"ResolveZoneQuery must be created via NewResolveZoneQuery constructor",
)

// ResolveZoneQuery maps a delivery street to its zone.
type ResolveZoneQuery struct {
	street string

	guard guard.ConstructorGuard
}

func NewResolveZoneQuery(street string) (ResolveZoneQuery, error) {
	if strings.TrimSpace(street) == "" {
		return ResolveZoneQuery{}, errs.NewValueIsRequiredError("street")
	}
	return ResolveZoneQuery{street: street, guard: guard.NewConstructorGuard()}, nil
}

func (q ResolveZoneQuery) Validate() error {
	return q.guard.Validate(ErrResolveZoneQueryIsNotConstructed)
}

func (q ResolveZoneQuery) Street() string {
	return q.street
}

type ResolveZoneQueryResponse struct {
	ZoneID   zone.ID
	Name     string
	Priority string
}

// ResolveZoneQueryHandler returns services.ErrZoneUnresolved when no zone covers
// the street.
type ResolveZoneQueryHandler struct {
	repos RepositoriesFactory
}

func NewResolveZoneQueryHandler(repos RepositoriesFactory) ResolveZoneQueryHandler {
	return ResolveZoneQueryHandler{repos: repos}
}

func (h ResolveZoneQueryHandler) Handle(ctx context.Context, query ResolveZoneQuery) (ResolveZoneQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveZoneQueryResponse{}, err
	}

	registry, err := loadRegistry(ctx, h.repos.Create())
	if err != nil {
		return ResolveZoneQueryResponse{}, err
	}

	id, err := registry.ResolveZone(query.Street())
	if err != nil {
		return ResolveZoneQueryResponse{}, err
	}
	z, err := registry.Zone(id)
	if err != nil {
		return ResolveZoneQueryResponse{}, err
	}

	return ResolveZoneQueryResponse{
		ZoneID:   z.ID(),
		Name:     z.Name(),
		Priority: z.Priority().String(),
	}, nil
}
