package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/attendance"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/dashboard"
	"github.com/edutrack/edutrack/core/importer"
	"github.com/edutrack/edutrack/core/marks"
	"github.com/edutrack/edutrack/core/student"
	logsvc "github.com/edutrack/edutrack/services/logger"
	"github.com/edutrack/edutrack/services/notifier"
	"github.com/edutrack/edutrack/services/sheet"
	inmemdb "github.com/edutrack/edutrack/storage/database/inmem"
)

// Services bundles every service wired on a fresh in-memory DB.
type Services struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Notifier   core.Notifier
	Student    student.Service
	Attend     attendance.Service
	Marks      marks.Service
	Batch      batch.Service
	Dashboard  *dashboard.Service
}

func NewConfig() *core.Config {
	conf := &core.Config{Env: "TEST", AppName: "EduTrack", TestMode: true}
	conf.Server.Address = ":0"
	conf.Server.BodyLimit = "2M"
	conf.Server.DisableReqLogs = true
	conf.Dispatch.Concurrency = 2
	return conf
}

func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	return validate, translator
}

func NewServices(t *testing.T) *Services {
	t.Helper()
	notifier.ResetSentNotifications()

	conf := NewConfig()
	logger := NewLogger(conf)
	db := inmemdb.Open()
	ntf := notifier.NewConsoleNotifierMock()

	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc, ntf, logger)
	mksSvc := marks.NewService(inmemdb.NewMarksRepository(db), stdSvc, ntf, logger)
	bchSvc := batch.NewService(
		inmemdb.NewBatchRepository(db),
		importer.NewMapper(importer.DefaultRules(), logger),
		sheet.DecodeFile,
		stdSvc,
		ntf,
		logger,
		batch.DispatchOptions{Concurrency: conf.Dispatch.Concurrency},
	)

	validate, translator := NewValidator()
	return &Services{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Notifier:   ntf,
		Student:    stdSvc,
		Attend:     attSvc,
		Marks:      mksSvc,
		Batch:      bchSvc,
		Dashboard:  dashboard.NewService(stdSvc, attSvc, mksSvc),
	}
}

func CreateStudent(t *testing.T, svc student.Service, id, name, parentName, parentPhone, parentEmail string) student.Student {
	t.Helper()
	s, _, err := svc.Upsert(context.Background(), student.NewStudent{
		ID:          id,
		Name:        name,
		Department:  "Science",
		ParentName:  parentName,
		ParentPhone: parentPhone,
		ParentEmail: parentEmail,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}
