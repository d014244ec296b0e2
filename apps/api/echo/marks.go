package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core/marks"
)

type marksApi struct {
	svc      marks.Service
	validate *validator.Validate
}

func registerMarksAPI(g *echo.Group, svc marks.Service, validate *validator.Validate) {
	api := marksApi{svc: svc, validate: validate}

	mg := g.Group("/marks")
	mg.GET("", api.query)
	mg.POST("", api.add)
}

// Handlers

func (api *marksApi) query(ctx echo.Context) error {
	mks, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	return ctx.JSON(http.StatusOK, mks)
}

func (api *marksApi) add(ctx echo.Context) error {
	var data marks.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, err := api.svc.Add(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding marks")
	}
	return ctx.JSON(http.StatusCreated, m)
}
