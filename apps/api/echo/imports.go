package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
)

const uploadField = "file"

var msgNothingToImport = "nothing to import"

type importApi struct {
	svc batch.Service
}

type (
	ImportRequest struct {
		Rows []importer.RawRow `json:"rows"`
	}

	// BatchView is how a batch is shown to the reviewer.
	BatchView struct {
		ID        uuid.UUID                 `json:"id"`
		Filename  string                    `json:"filename"`
		CreatedAt time.Time                 `json:"created_at"`
		Records   []importer.ImportedRecord `json:"records"`
		Preview   *importer.ImportedRecord  `json:"preview"`
		Summary   batch.Summary             `json:"summary"`
	}

	NothingToImportResponse struct {
		Message string `json:"message"`
		Skipped int    `json:"skipped"`
	}
)

func NewBatchView(b batch.Batch) BatchView {
	view := BatchView{
		ID:        b.ID,
		Filename:  b.Filename,
		CreatedAt: b.CreatedAt,
		Records:   b.Records,
		Summary:   b.Summary(),
	}
	if view.Records == nil {
		view.Records = []importer.ImportedRecord{}
	}
	if rec, ok := b.Preview(); ok {
		view.Preview = &rec
	}
	return view
}

func registerImportAPI(g *echo.Group, svc batch.Service) {
	api := importApi{svc: svc}

	ig := g.Group("/imports", sessionMiddleware())
	ig.POST("", api.create)
	ig.GET("/current", api.current)
	ig.DELETE("/current", api.discard)
	ig.POST("/current/dispatch", api.dispatch)
}

// Handlers

// create imports an uploaded spreadsheet (multipart `file`) or JSON rows.
func (api *importApi) create(ctx echo.Context) error {
	session := sessionFromContext(ctx)

	var (
		b   batch.Batch
		err error
	)
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		b, err = api.importFile(ctx, session)
	} else {
		var data ImportRequest
		if err = ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to ImportRequest")
		}
		b, err = api.svc.Import(ctx.Request().Context(), session, "", data.Rows)
	}

	if err != nil {
		if errors.Cause(err) == batch.ErrNothingToImport {
			return ctx.JSON(http.StatusOK, NothingToImportResponse{Message: msgNothingToImport, Skipped: b.Skipped})
		}
		return errors.Wrap(err, "importing rows")
	}
	return ctx.JSON(http.StatusCreated, NewBatchView(b))
}

func (api *importApi) importFile(ctx echo.Context, session core.Session) (batch.Batch, error) {
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		return batch.Batch{}, core.NewValidationError(
			err,
			core.FieldError{Field: uploadField, Error: "this field is required"},
		)
	}
	f, err := fh.Open()
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	return api.svc.ImportFile(ctx.Request().Context(), session, fh.Filename, f)
}

func (api *importApi) current(ctx echo.Context) error {
	b, err := api.svc.Current(ctx.Request().Context(), sessionFromContext(ctx))
	if err != nil {
		return errors.Wrap(err, "getting current batch")
	}
	return ctx.JSON(http.StatusOK, NewBatchView(b))
}

func (api *importApi) discard(ctx echo.Context) error {
	if err := api.svc.Discard(ctx.Request().Context(), sessionFromContext(ctx)); err != nil {
		return errors.Wrap(err, "discarding current batch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *importApi) dispatch(ctx echo.Context) error {
	b, err := api.svc.Dispatch(ctx.Request().Context(), sessionFromContext(ctx))
	if err != nil {
		return errors.Wrap(err, "dispatching current batch")
	}
	return ctx.JSON(http.StatusOK, NewBatchView(b))
}
