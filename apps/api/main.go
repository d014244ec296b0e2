package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/edutrack/edutrack/apps/api/echo"
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

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db := inmemdb.Open()

	// set up services
	var ntf core.Notifier
	switch {
	case conf.Debug:
		ntf = notifier.NewConsoleNotifier(log.New(os.Stdout, "NOTIFY : ", log.LstdFlags))
	case conf.HasTwilio():
		ntf = notifier.NewTwilioNotifier(conf)
	case conf.SendgridApiKey != "":
		ntf = notifier.NewSendgridNotifier(conf)
	default:
		ntf = notifier.NewConsoleNotifier(log.New(os.Stdout, "NOTIFY : ", log.LstdFlags))
	}

	rules, err := importer.DefaultRules().WithOverrides(conf.ImportKeywords)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading import keywords: %v", err), err)
	}

	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc, ntf, logger)
	mksSvc := marks.NewService(inmemdb.NewMarksRepository(db), stdSvc, ntf, logger)
	bchSvc := batch.NewService(
		inmemdb.NewBatchRepository(db),
		importer.NewMapper(rules, logger),
		sheet.DecodeFile,
		stdSvc,
		ntf,
		logger,
		batch.DispatchOptions{Concurrency: conf.Dispatch.Concurrency, Delay: conf.Dispatch.Delay},
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	logger.Debug("import rules: " + rules.String())

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			StudentSvc:    stdSvc,
			AttendanceSvc: attSvc,
			MarksSvc:      mksSvc,
			BatchSvc:      bchSvc,
			DashboardSvc:  dashboard.NewService(stdSvc, attSvc, mksSvc),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
