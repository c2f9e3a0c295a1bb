package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/user"
)

type admissionApi struct {
	svc *admission.Service
}

func registerAdmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *admission.Service) {
	api := admissionApi{svc: svc}

	ag := g.Group("/applications", jwt)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)

	// admission office
	admissionOffice := roleMiddleware(user.RoleAdmission)
	ag.POST("", api.create, admissionOffice)
	ag.POST("/:id/submit", api.submit, admissionOffice)
	ag.POST("/:id/start-review", api.startReview, admissionOffice)
	ag.POST("/:id/review", api.reviewDecision, admissionOffice)
	ag.POST("/:id/withdraw", api.withdraw, admissionOffice)
	ag.POST("/:id/cancel", api.cancel, roleMiddleware(user.RoleAdmission, user.RolePrincipal))

	// fee office
	ag.POST("/:id/fee-structure", api.assignFee, roleMiddleware(user.RoleFee))

	// principal
	ag.POST("/:id/principal-decision", api.principalDecision, roleMiddleware(user.RolePrincipal))

	// operational departments
	ag.POST("/:id/clearances", api.updateClearance, roleMiddleware(user.RoleDepartment))
}

// Requests

type (
	versionedRequest struct {
		ExpectedVersion int `json:"expected_version" validate:"required,min=1"`
	}

	decisionRequest struct {
		versionedRequest
		Approve bool   `json:"approve"`
		Remark  string `json:"remark"`
	}

	remarkRequest struct {
		versionedRequest
		Remark string `json:"remark" validate:"required"`
	}

	feeStructureRequest struct {
		versionedRequest
		admission.FeeAssignment
	}

	clearanceRequest struct {
		versionedRequest
		admission.ClearanceUpdate
	}
)

// Handlers

func (api *admissionApi) create(ctx echo.Context) error {
	var data admission.NewApplicationInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplicationInput")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	app, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating application")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *admissionApi) query(ctx echo.Context) error {
	var filter admission.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	apps, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *admissionApi) retrieve(ctx echo.Context) error {
	app, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) submit(ctx echo.Context) error {
	var data versionedRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to versionedRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) startReview(ctx echo.Context) error {
	var data versionedRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to versionedRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.StartReview(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) reviewDecision(ctx echo.Context) error {
	var data decisionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to decisionRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.ReviewDecision(
		ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx),
		admission.Decision{Approve: data.Approve, Remark: data.Remark},
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) assignFee(ctx echo.Context) error {
	var data feeStructureRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to feeStructureRequest")
	}
	if err := core.Validate.Struct(&data.versionedRequest); err != nil {
		return err
	}

	app, err := api.svc.AssignFee(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx), data.FeeAssignment)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) principalDecision(ctx echo.Context) error {
	var data decisionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to decisionRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.PrincipalDecision(
		ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx),
		admission.Decision{Approve: data.Approve, Remark: data.Remark},
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) updateClearance(ctx echo.Context) error {
	var data clearanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to clearanceRequest")
	}
	if err := core.Validate.Struct(&data.versionedRequest); err != nil {
		return err
	}

	// department staff may only clear their own department
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if !hasRole(claims.Roles, user.RoleDepartment+string(data.Department)) {
		return errHttpForbidden
	}

	app, err := api.svc.UpdateClearance(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx), data.ClearanceUpdate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) cancel(ctx echo.Context) error {
	var data remarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to remarkRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.Cancel(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx), data.Remark)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) withdraw(ctx echo.Context) error {
	var data remarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to remarkRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.Withdraw(ctx.Request().Context(), ctx.Param("id"), data.ExpectedVersion, actorID(ctx), data.Remark)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
