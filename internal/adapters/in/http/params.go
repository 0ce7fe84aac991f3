package http

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var value openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(value[:])
}

func pathZone(c echo.Context) (zone.ID, error) {
	raw, err := pathString(c, "zoneId")
	if err != nil {
		return "", err
	}
	return zone.NewID(raw)
}

func pathSlot(c echo.Context) (kernel.Slot, error) {
	raw, err := pathString(c, "slot")
	if err != nil {
		return kernel.Slot{}, err
	}
	return kernel.ParseSlot(raw)
}

// queryParam binds a form-style query parameter into dest.
func queryParam(c echo.Context, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, c.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
