package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core/catalog"
	"github.com/shuletech/udahili/core/user"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	cg := g.Group("/fee-templates", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.POST("", api.create, roleMiddleware(user.RoleFee))
}

func (api *catalogApi) create(ctx echo.Context) error {
	var data catalog.NewFeeTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeTemplate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee template")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *catalogApi) query(ctx echo.Context) error {
	if classID := ctx.QueryParam("class_id"); classID != "" {
		templates, err := api.svc.GetTemplatesForClass(ctx.Request().Context(), classID)
		if err != nil {
			return errors.Wrap(err, "querying fee templates for class")
		}
		return ctx.JSON(http.StatusOK, templates)
	}

	templates, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying fee templates")
	}
	return ctx.JSON(http.StatusOK, templates)
}

func (api *catalogApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}
