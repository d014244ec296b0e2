package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
	"github.com/edutrack/edutrack/core/student"
	logsvc "github.com/edutrack/edutrack/services/logger"
	"github.com/edutrack/edutrack/services/notifier"
	"github.com/edutrack/edutrack/services/sheet"
	inmemdb "github.com/edutrack/edutrack/storage/database/inmem"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	rules, err := importer.DefaultRules().WithOverrides(conf.ImportKeywords)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading import keywords: %v", err), err)
	}

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	// set up DB & services
	db := inmemdb.Open()
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	ntf := notifier.NewConsoleNotifier(log.New(os.Stdout, "", 0))

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		validate: validate,
		stdSvc:   stdSvc,
		batchSvc: batch.NewService(
			inmemdb.NewBatchRepository(db),
			importer.NewMapper(rules, logger),
			sheet.DecodeFile,
			stdSvc,
			ntf,
			logger,
			batch.DispatchOptions{Concurrency: conf.Dispatch.Concurrency, Delay: conf.Dispatch.Delay},
		),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
