package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core/attendance"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

type archiveResponse struct {
	Archived int `json:"archived"`
}

func registerAttendanceAPI(g *echo.Group, svc attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance")
	ag.POST("", api.mark)
	ag.GET("/today", api.today)
	ag.GET("/history", api.history)
	ag.POST("/archive", api.archive)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) today(ctx echo.Context) error {
	entries, err := api.svc.Today(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying today's attendance")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	records, err := api.svc.History(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) archive(ctx echo.Context) error {
	n, err := api.svc.Archive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "archiving attendance")
	}
	return ctx.JSON(http.StatusOK, archiveResponse{Archived: n})
}
