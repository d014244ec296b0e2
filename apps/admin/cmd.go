package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/student"
)

var (
	terminalWidthFunc = terminalWidth // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out      io.Writer
	validate *validator.Validate
	stdSvc   student.Service
	batchSvc batch.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  import -file PATH [-students PATH] [-session KEY] [-dispatch] - import a spreadsheet and review its records")
	fmt.Fprintln(cli.out, "  keywords - print the column-mapping keywords")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importCmd.SetOutput(cli.out)
	importFile := importCmd.String("file", "", "The spreadsheet to import (.xlsx, .xlsm or .csv).")
	importStudents := importCmd.String("students", "", "A spreadsheet of students to load first (id, name, department, parent_name, parent_phone, parent_email).")
	importSession := importCmd.String("session", string(core.DefaultSession), "The import session key.")
	importDispatch := importCmd.Bool("dispatch", false, "Notify parents of the imported records.")

	switch args[1] {
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importFile(importOptions{
			file:     *importFile,
			students: *importStudents,
			session:  core.CleanSession(*importSession),
			dispatch: *importDispatch,
		})
	case "keywords":
		fmt.Fprint(cli.out, cli.batchSvc.Rules().String())
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
