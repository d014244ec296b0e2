package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
	"github.com/edutrack/edutrack/core/student"
	"github.com/edutrack/edutrack/services/sheet"
)

const (
	defaultColWidth = 16
	minColWidth     = 6
	maxColWidth     = 32
)

var tableHeaders = []string{"ID", "SUBJECT", "EXAM", "SCORE", "STATUS"}

type importOptions struct {
	file     string
	students string
	session  core.Session
	dispatch bool
}

func (cli *commandLine) importFile(opts importOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.students != "" {
		n, err := cli.loadStudents(ctx, opts.students)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "loaded %d students\n", n)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := cli.batchSvc.ImportFile(ctx, opts.session, f.Name(), f)
	if err != nil {
		if errors.Cause(err) == batch.ErrNothingToImport {
			if b.Skipped > 0 {
				fmt.Fprintf(cli.out, "nothing to import (%d rows skipped)\n", b.Skipped)
			} else {
				fmt.Fprintln(cli.out, "nothing to import")
			}
			return nil
		}
		return err
	}
	cli.printBatch(b)

	if !opts.dispatch {
		return nil
	}
	if b, err = cli.batchSvc.Dispatch(ctx, opts.session); err != nil {
		return err
	}
	fmt.Fprintln(cli.out)
	cli.printBatch(b)
	return nil
}

// loadStudents upserts every student row of the spreadsheet at `path`.
func (cli *commandLine) loadStudents(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := sheet.DecodeFile(f.Name(), f)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		ns := newStudentFromRow(row)
		if err = ns.Validate(cli.validate); err != nil {
			return i, errors.Wrapf(err, "student row %d", i+1)
		}
		if _, _, err = cli.stdSvc.Upsert(ctx, ns); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

func newStudentFromRow(row importer.RawRow) student.NewStudent {
	var ns student.NewStudent
	for _, col := range row {
		val := col.Value.String()
		switch strings.ToLower(strings.TrimSpace(col.Header)) {
		case "id":
			ns.ID = val
		case "name":
			ns.Name = val
		case "department":
			ns.Department = val
		case "parent_name":
			ns.ParentName = val
		case "parent_phone":
			ns.ParentPhone = val
		case "parent_email":
			ns.ParentEmail = val
		}
	}
	return ns
}

func (cli *commandLine) printBatch(b batch.Batch) {
	width := columnWidth(terminalWidthFunc(), len(tableHeaders))
	printRow := func(cells ...string) {
		for i, c := range cells {
			cells[i] = fmt.Sprintf("%-*s", width, truncate(c, width))
		}
		fmt.Fprintln(cli.out, strings.TrimRight(strings.Join(cells, " "), " "))
	}

	printRow(append([]string{}, tableHeaders...)...)
	for _, rec := range b.Records {
		printRow(
			rec.StudentID,
			rec.Subject.String,
			rec.ExamType.String,
			rec.Score.String,
			string(rec.Status),
		)
	}

	sum := b.Summary()
	fmt.Fprintf(cli.out, "%d records (%d pending, %d sent, %d failed), %d rows skipped\n",
		sum.Total, sum.Pending, sum.Sent, sum.Failed, sum.Skipped)
	if rec, ok := b.Preview(); ok {
		fmt.Fprintf(cli.out, "preview: %s\n", rec.StudentID)
	}
}

// columnWidth splits the terminal width between `cols` columns separated by a space.
func columnWidth(termWidth, cols int) int {
	if termWidth <= 0 {
		return defaultColWidth
	}
	w := (termWidth - (cols - 1)) / cols
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
